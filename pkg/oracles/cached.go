package oracles

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sync"

	"github.com/quantalab/qevo-go/pkg/core"
)

// CacheStats reports how much oracle work the cache avoided.
type CacheStats struct {
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Size       int   `json:"size"`
	ShotsSaved int64 `json:"shots_saved"`
}

// Cached memoizes oracle evaluations so a repeated parameter vector does
// not burn shots twice. Entries are evicted least-recently-used once the
// cache holds maxEntries results.
//
// The cache key covers both the parameters and the shot count, since the
// same parameters at different shot counts yield different noise levels.
type Cached struct {
	oracle     core.Oracle
	maxEntries int

	mu      sync.Mutex
	entries map[string]*cachedEntry
	lru     *lruList
	stats   CacheStats
}

type cachedEntry struct {
	probs   core.ProbabilityVector
	element *lruElement
}

type lruElement struct {
	key  string
	prev *lruElement
	next *lruElement
}

type lruList struct {
	head *lruElement
	tail *lruElement
}

func newLRUList() *lruList {
	head := &lruElement{}
	tail := &lruElement{}
	head.next = tail
	tail.prev = head
	return &lruList{head: head, tail: tail}
}

func (l *lruList) moveToFront(elem *lruElement) {
	if elem.prev == l.head {
		return
	}
	elem.prev.next = elem.next
	elem.next.prev = elem.prev
	elem.prev = l.head
	elem.next = l.head.next
	l.head.next.prev = elem
	l.head.next = elem
}

func (l *lruList) pushFront(key string) *lruElement {
	elem := &lruElement{key: key}
	elem.prev = l.head
	elem.next = l.head.next
	l.head.next.prev = elem
	l.head.next = elem
	return elem
}

func (l *lruList) removeBack() *lruElement {
	elem := l.tail.prev
	if elem == l.head {
		return nil
	}
	elem.prev.next = elem.next
	elem.next.prev = elem.prev
	return elem
}

const defaultCacheEntries = 1024

// NewCached wraps an oracle with an LRU evaluation cache. maxEntries <= 0
// selects the default capacity.
func NewCached(oracle core.Oracle, maxEntries int) *Cached {
	if maxEntries <= 0 {
		maxEntries = defaultCacheEntries
	}
	return &Cached{
		oracle:     oracle,
		maxEntries: maxEntries,
		entries:    make(map[string]*cachedEntry),
		lru:        newLRUList(),
	}
}

func (c *Cached) Evaluate(ctx context.Context, params core.ParameterVector, shots int) (core.ProbabilityVector, error) {
	key := evaluationKey(params, shots)

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.lru.moveToFront(entry.element)
		c.stats.Hits++
		c.stats.ShotsSaved += int64(shots)
		probs := entry.probs
		c.mu.Unlock()
		return probs, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	probs, err := c.oracle.Evaluate(ctx, params, shots)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = &cachedEntry{probs: probs, element: c.lru.pushFront(key)}
		if len(c.entries) > c.maxEntries {
			if victim := c.lru.removeBack(); victim != nil {
				delete(c.entries, victim.key)
			}
		}
	}
	return probs, nil
}

func (c *Cached) Positions() int { return c.oracle.Positions() }

func (c *Cached) Name() string {
	return fmt.Sprintf("%s (cached)", c.oracle.Name())
}

// Stats returns a snapshot of cache effectiveness counters.
func (c *Cached) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := c.stats
	stats.Size = len(c.entries)
	return stats
}

func evaluationKey(params core.ParameterVector, shots int) string {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(shots))
	h.Write(buf[:])
	for _, p := range params {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
