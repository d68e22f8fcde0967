package core

import (
	"github.com/quantalab/qevo-go/pkg/errors"
)

// TargetSet is an ordered, deduplicated set of patterns known to be of
// interest. It is fixed for the duration of a filter run.
type TargetSet []Pattern

// NewTargetSet builds a target set, deduplicating while preserving first
// occurrence order. An empty input is a configuration error.
func NewTargetSet(patterns ...Pattern) (TargetSet, error) {
	if len(patterns) == 0 {
		return nil, errors.New(errors.InvalidInput, "target set must not be empty")
	}

	seen := make(map[Pattern]struct{}, len(patterns))
	targets := make(TargetSet, 0, len(patterns))
	for _, p := range patterns {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		targets = append(targets, p)
	}
	return targets, nil
}

// Contains reports whether p is a member of the set.
func (ts TargetSet) Contains(p Pattern) bool {
	for _, t := range ts {
		if t == p {
			return true
		}
	}
	return false
}

// MinHammingDistance returns the smallest Hamming distance from p to any
// member of the set.
func (ts TargetSet) MinHammingDistance(p Pattern) int {
	min := -1
	for _, t := range ts {
		if d := p.HammingDistance(t); min < 0 || d < min {
			min = d
		}
	}
	return min
}

// CandidateSet is an ordered, deduplicated sequence of patterns selected
// for further oracle-based search. A valid candidate set always contains
// the originating targets as a prefix and is bounded by the configured
// maximum. It is produced once per filter invocation and immutable
// thereafter.
type CandidateSet []Pattern

// Contains reports whether p is a member of the set.
func (cs CandidateSet) Contains(p Pattern) bool {
	for _, c := range cs {
		if c == p {
			return true
		}
	}
	return false
}

// HasPrefix reports whether the set starts with the given targets in order.
func (cs CandidateSet) HasPrefix(ts TargetSet) bool {
	if len(cs) < len(ts) {
		return false
	}
	for i, t := range ts {
		if cs[i] != t {
			return false
		}
	}
	return true
}
