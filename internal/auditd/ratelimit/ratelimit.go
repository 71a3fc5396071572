// Package ratelimit provides a token-bucket limiter for audit requests,
// keyed per server ID instead of per auction participant.
package ratelimit

import (
	"sync"
	"time"
)

// Bucket is a single token-bucket rate limiter.
type Bucket struct {
	mu           sync.Mutex
	tokens       int
	maxTokens    int
	refillRate   int
	refillPeriod time.Duration
	lastRefill   time.Time
}

// NewBucket creates a Bucket that starts full.
func NewBucket(maxTokens, refillRate int, refillPeriod time.Duration) *Bucket {
	return &Bucket{
		tokens:       maxTokens,
		maxTokens:    maxTokens,
		refillRate:   refillRate,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow reports whether a request may proceed, consuming a token if so.
func (b *Bucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := time.Since(b.lastRefill)
	if refills := int(elapsed / b.refillPeriod); refills > 0 {
		b.tokens += refills * b.refillRate
		if b.tokens > b.maxTokens {
			b.tokens = b.maxTokens
		}
		b.lastRefill = time.Now()
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// Reset refills the bucket to capacity immediately.
func (b *Bucket) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = b.maxTokens
	b.lastRefill = time.Now()
}

// PerServer manages one Bucket per server ID, allocated lazily on first use.
type PerServer struct {
	mu           sync.RWMutex
	buckets      map[string]*Bucket
	maxTokens    int
	refillRate   int
	refillPeriod time.Duration
}

// NewPerServer creates a PerServer limiter; each server ID gets its own
// Bucket built with the given parameters on first Allow call.
func NewPerServer(maxTokens, refillRate int, refillPeriod time.Duration) *PerServer {
	return &PerServer{
		buckets:      make(map[string]*Bucket),
		maxTokens:    maxTokens,
		refillRate:   refillRate,
		refillPeriod: refillPeriod,
	}
}

// Allow reports whether serverID may submit another proof request.
func (p *PerServer) Allow(serverID string) bool {
	p.mu.Lock()
	b, ok := p.buckets[serverID]
	if !ok {
		b = NewBucket(p.maxTokens, p.refillRate, p.refillPeriod)
		p.buckets[serverID] = b
	}
	p.mu.Unlock()
	return b.Allow()
}
