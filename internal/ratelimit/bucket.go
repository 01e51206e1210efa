// Package ratelimit is a token bucket shared by every outbound and inbound
// throttle in this module: internal/api's per-IP HTTP limiter and
// internal/noncecrawl's per-block Bitcoin RPC throttle both run the same
// primitive, just with different rate/burst settings and call conventions
// (non-blocking Allow for HTTP, blocking Wait for the crawler loop).
package ratelimit

import (
	"sync"
	"time"
)

// Bucket refills at rate tokens/sec up to burst capacity.
type Bucket struct {
	mu       sync.Mutex
	tokens   float64
	rate     float64
	burst    float64
	lastSeen time.Time
}

// New creates a bucket starting full, allowing ratePerSec tokens/sec with a
// maximum burst capacity of burst.
func New(ratePerSec float64, burst int) *Bucket {
	return &Bucket{
		tokens:   float64(burst),
		rate:     ratePerSec,
		burst:    float64(burst),
		lastSeen: time.Now(),
	}
}

// Allow reports whether a token is available right now, consuming one if
// so. If not, it reports how long the caller should wait before retrying.
func (b *Bucket) Allow() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastSeen).Seconds()
	b.tokens += elapsed * b.rate
	if b.tokens > b.burst {
		b.tokens = b.burst
	}
	b.lastSeen = now

	if b.tokens >= 1.0 {
		b.tokens--
		return true, 0
	}
	return false, time.Duration((1.0-b.tokens)/b.rate*1000) * time.Millisecond
}

// Wait blocks until a token is available. Callers that need to pace a
// sequential loop (the nonce-reuse crawler's per-block RPC calls) use this
// instead of Allow + a fixed sleep.
func (b *Bucket) Wait() {
	for {
		ok, retryAfter := b.Allow()
		if ok {
			return
		}
		time.Sleep(retryAfter)
	}
}

// LastSeen reports when a token was last requested, for idle-bucket cleanup.
func (b *Bucket) LastSeen() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen
}
