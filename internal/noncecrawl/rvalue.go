package noncecrawl

import "sync"

// RValueIndex maps observed r-values to the first SignaturePoint seen for
// that r. It is exclusively owned and mutated by the single crawler
// goroutine (spec.md §5's ownership note); the mutex here guards only
// concurrent reads from a reporting/API goroutine.
type RValueIndex struct {
	mu      sync.RWMutex
	entries map[[32]byte]SignaturePoint
}

// NewRValueIndex builds an empty index.
func NewRValueIndex() *RValueIndex {
	return &RValueIndex{entries: make(map[[32]byte]SignaturePoint)}
}

// Collision is returned when CheckAndInsert observes two distinct
// SignaturePoints sharing r.
type Collision struct {
	First, Second SignaturePoint
}

// CheckAndInsert records point. If a prior point with the same r exists and
// is not the identical (txid, vin) observation, and the two carry distinct
// s, a Collision is returned — this is the nonce-reuse signal. Identical
// (txid, vin) pairs (the same input observed twice) are never a collision,
// even if somehow re-inspected. A repeated signature (same r AND same s) is
// also not a collision — it is the same signature, not two uses of the
// same nonce.
func (idx *RValueIndex) CheckAndInsert(point SignaturePoint) (Collision, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	prior, seen := idx.entries[point.R]
	if !seen {
		idx.entries[point.R] = point
		return Collision{}, false
	}

	if prior.Txid == point.Txid && prior.Vin == point.Vin {
		return Collision{}, false
	}
	if prior.S == point.S {
		return Collision{}, false
	}
	return Collision{First: prior, Second: point}, true
}

// Len reports how many distinct r-values are indexed.
func (idx *RValueIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}
