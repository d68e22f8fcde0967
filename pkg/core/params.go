package core

import (
	"math"
	"math/rand"
)

// ParamBound is the symmetric component bound for parameter vectors.
// Components are rotation angles, so the natural range is [-π, π].
const ParamBound = math.Pi

// ParameterVector is a fixed-length sequence of real numbers controlling
// the oracle's behavior. It acts as the genome of the evolutionary
// optimizer; every component stays within [-ParamBound, ParamBound].
type ParameterVector []float64

// NewRandomParameters draws a parameter vector of length n independently
// and uniformly from [-ParamBound, ParamBound].
func NewRandomParameters(rng *rand.Rand, n int) ParameterVector {
	params := make(ParameterVector, n)
	for i := range params {
		params[i] = (rng.Float64()*2 - 1) * ParamBound
	}
	return params
}

// Clone returns an independent copy of the vector.
func (pv ParameterVector) Clone() ParameterVector {
	out := make(ParameterVector, len(pv))
	copy(out, pv)
	return out
}

// Clamp bounds every component to [-ParamBound, ParamBound] in place and
// returns the vector for chaining.
func (pv ParameterVector) Clamp() ParameterVector {
	for i, v := range pv {
		if v > ParamBound {
			pv[i] = ParamBound
		} else if v < -ParamBound {
			pv[i] = -ParamBound
		}
	}
	return pv
}

// InBounds reports whether every component lies within the bound.
func (pv ParameterVector) InBounds() bool {
	for _, v := range pv {
		if v > ParamBound || v < -ParamBound {
			return false
		}
	}
	return true
}
