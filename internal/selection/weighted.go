package selection

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Source yields uniformly distributed values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSeededSource returns a deterministic PCG-backed source.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewTimeSeededSource seeds from the wall clock.
func NewTimeSeededSource() Source {
	return NewSeededSource(uint64(time.Now().UnixNano()))
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

// NewLockedSource serializes access to src so it can be shared across goroutines.
func NewLockedSource(src Source) Source {
	if _, ok := src.(*lockedSource); ok {
		return src
	}
	return &lockedSource{src: src}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Float64()
}

// Eligible reports whether a weight contributes selection mass.
func Eligible(w float64) bool {
	return w > 0 && !math.IsInf(w, 1)
}

// TotalWeight sums the eligible weights of items.
func TotalWeight[T any](items []T, weight func(T) float64) float64 {
	total := 0.0
	for _, item := range items {
		if w := weight(item); Eligible(w) {
			total += w
		}
	}
	return total
}

func maxWeight[T any](items []T, weight func(T) float64) float64 {
	highest := 0.0
	for _, item := range items {
		if w := weight(item); Eligible(w) && w > highest {
			highest = w
		}
	}
	return highest
}

// Choose partitions [0, total) into consecutive intervals sized by each
// eligible item's weight, in slice order, and returns the item whose interval
// contains a uniform draw from src. Items with weight <= 0 (or NaN/+Inf) are
// never returned. The boolean is false when no item is eligible.
func Choose[T any](src Source, items []T, weight func(T) float64) (T, bool) {
	var zero T

	total := TotalWeight(items, weight)
	if math.IsInf(total, 1) {
		// Finite weights overflowed the sum; dividing by the largest keeps
		// every term at most 1.
		highest := maxWeight(items, weight)
		unscaled := weight
		weight = func(item T) float64 { return unscaled(item) / highest }
		total = TotalWeight(items, weight)
	}
	if total <= 0 {
		return zero, false
	}

	r := src.Float64() * total

	acc := 0.0
	last := -1
	for i, item := range items {
		w := weight(item)
		if !Eligible(w) {
			continue
		}
		acc += w
		last = i
		if acc > r {
			return item, true
		}
	}

	// r rounded up to total; the draw belongs to the last interval.
	return items[last], true
}
