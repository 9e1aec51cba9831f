package systems

import (
	"errors"
	"fmt"
	"iter"

	"github.com/pthm-cable/starfield/components"
)

var (
	// ErrResourceExhausted is returned when a table or system cannot accept
	// another entity. Table state is unchanged.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrDuplicateKey is returned when inserting at an occupied point.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Entry is a collision-chain node: an exact key and the entity it owns.
type Entry[T any] struct {
	Point  components.Point
	Entity T
}

// SpatialTable stores sparse entities keyed by exact position. It has a fixed
// number of buckets, each a chain of entries in most-recent-first order.
type SpatialTable[T any] struct {
	buckets    [][]Entry[T]
	kind       TableKind
	size       int
	maxEntries int
}

// NewSpatialTable creates a table with the first prime above regionSize^2
// buckets. maxEntries <= 0 means unlimited.
func NewSpatialTable[T any](regionSize int, kind TableKind, maxEntries int) *SpatialTable[T] {
	n := NextPrime(regionSize * regionSize)
	return &SpatialTable[T]{
		buckets:    make([][]Entry[T], n),
		kind:       kind,
		maxEntries: maxEntries,
	}
}

// NextPrime returns the smallest prime strictly greater than n.
func NextPrime(n int) int {
	for c := n + 1; ; c++ {
		if isPrime(c) {
			return c
		}
	}
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func (t *SpatialTable[T]) index(p components.Point) int {
	return int(TableIndex(p, uint64(len(t.buckets)), t.kind))
}

// Insert prepends entity at p. The entity must be fully constructed.
func (t *SpatialTable[T]) Insert(p components.Point, entity T) error {
	p = components.Canonical(p)
	i := t.index(p)
	for _, e := range t.buckets[i] {
		if e.Point == p {
			return fmt.Errorf("inserting at (%g, %g): %w", p.X, p.Y, ErrDuplicateKey)
		}
	}
	if t.maxEntries > 0 && t.size >= t.maxEntries {
		return fmt.Errorf("inserting at (%g, %g): %w", p.X, p.Y, ErrResourceExhausted)
	}
	chain := make([]Entry[T], 0, len(t.buckets[i])+1)
	chain = append(chain, Entry[T]{Point: p, Entity: entity})
	t.buckets[i] = append(chain, t.buckets[i]...)
	t.size++
	return nil
}

// Exists reports whether an entry for p is stored.
func (t *SpatialTable[T]) Exists(p components.Point) bool {
	_, ok := t.Get(p)
	return ok
}

// Get returns the entity stored at exactly p.
func (t *SpatialTable[T]) Get(p components.Point) (T, bool) {
	p = components.Canonical(p)
	for _, e := range t.buckets[t.index(p)] {
		if e.Point == p {
			return e.Entity, true
		}
	}
	var zero T
	return zero, false
}

// Delete unlinks the entry at p and returns the entity it owned.
func (t *SpatialTable[T]) Delete(p components.Point) (T, bool) {
	p = components.Canonical(p)
	i := t.index(p)
	chain := t.buckets[i]
	for j, e := range chain {
		if e.Point == p {
			t.buckets[i] = append(chain[:j:j], chain[j+1:]...)
			t.size--
			return e.Entity, true
		}
	}
	var zero T
	return zero, false
}

// Clear deletes every entry.
func (t *SpatialTable[T]) Clear() {
	for i := range t.buckets {
		t.buckets[i] = nil
	}
	t.size = 0
}

// Len returns the number of stored entries.
func (t *SpatialTable[T]) Len() int {
	return t.size
}

// NumBuckets returns the fixed bucket count.
func (t *SpatialTable[T]) NumBuckets() int {
	return len(t.buckets)
}

// All iterates every entry, bucket by bucket, chain head first.
// The table must not be mutated during iteration.
func (t *SpatialTable[T]) All() iter.Seq2[components.Point, T] {
	return func(yield func(components.Point, T) bool) {
		for _, chain := range t.buckets {
			for _, e := range chain {
				if !yield(e.Point, e.Entity) {
					return
				}
			}
		}
	}
}

// Chain returns a read-only view of bucket i.
func (t *SpatialTable[T]) Chain(i int) []Entry[T] {
	return t.buckets[i]
}

// ChainLengths returns the length of every bucket chain.
func (t *SpatialTable[T]) ChainLengths() []float64 {
	out := make([]float64, len(t.buckets))
	for i, chain := range t.buckets {
		out[i] = float64(len(chain))
	}
	return out
}

// Evict deletes every entry for which keep returns false and returns the
// number removed.
func (t *SpatialTable[T]) Evict(keep func(p components.Point, entity T) bool) int {
	removed := 0
	for i, chain := range t.buckets {
		kept := chain[:0]
		for _, e := range chain {
			if keep(e.Point, e.Entity) {
				kept = append(kept, e)
			} else {
				removed++
			}
		}
		// Drop references held past the new length
		for j := len(kept); j < len(chain); j++ {
			chain[j] = Entry[T]{}
		}
		t.buckets[i] = kept
	}
	t.size -= removed
	return removed
}
