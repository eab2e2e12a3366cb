// Package ratelimit provides per-key request throttling for authenticated routes.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether a request for key may proceed.
type Limiter interface {
	// Allow consumes one token for key. When the request is rejected, retryAfter is the
	// wait until a token becomes available.
	Allow(key string) (allowed bool, retryAfter time.Duration)

	// Close releases background resources.
	Close()
}

const (
	defaultCleanupInterval = 5 * time.Minute
	defaultIdleTTL         = time.Hour
)

// TokenBucket keeps one golang.org/x/time/rate limiter per key.
type TokenBucket struct {
	limiters sync.Map // map[string]*limiterEntry
	rps      float64
	burst    int

	cleanupInterval time.Duration
	idleTTL         time.Duration

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// Option configures a TokenBucket.
type Option func(*TokenBucket)

// WithCleanupInterval sets how often idle keys are evicted.
func WithCleanupInterval(d time.Duration) Option {
	return func(tb *TokenBucket) {
		tb.cleanupInterval = d
	}
}

// WithIdleTTL sets how long a key may stay unused before eviction.
func WithIdleTTL(d time.Duration) Option {
	return func(tb *TokenBucket) {
		tb.idleTTL = d
	}
}

// NewTokenBucket creates a limiter allowing rps sustained requests per key with bursts of
// up to burst requests. It starts a cleanup goroutine that runs until Close.
func NewTokenBucket(rps float64, burst int, opts ...Option) *TokenBucket {
	tb := &TokenBucket{
		rps:             rps,
		burst:           burst,
		cleanupInterval: defaultCleanupInterval,
		idleTTL:         defaultIdleTTL,
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(tb)
	}

	go tb.cleanupStale()

	return tb
}

// Allow implements Limiter.
func (tb *TokenBucket) Allow(key string) (bool, time.Duration) {
	limiter := tb.getLimiter(key)

	now := time.Now()
	if limiter.AllowN(now, 1) {
		return true, 0
	}

	return false, tb.delayFor(limiter.TokensAt(now))
}

// delayFor returns how long it takes to refill tokens up to one whole token.
func (tb *TokenBucket) delayFor(tokens float64) time.Duration {
	if tb.rps <= 0 {
		return time.Second
	}
	missing := 1 - tokens
	if missing <= 0 {
		return 0
	}
	return time.Duration(missing / tb.rps * float64(time.Second))
}

// Close stops the cleanup goroutine and waits for it to exit. It is safe to call twice.
func (tb *TokenBucket) Close() {
	tb.closeOnce.Do(func() {
		close(tb.stop)
		<-tb.done
	})
}

// Len returns the number of tracked keys.
func (tb *TokenBucket) Len() int {
	n := 0
	tb.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (tb *TokenBucket) getLimiter(key string) *rate.Limiter {
	if val, ok := tb.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(tb.rps), tb.burst),
		lastAccess: time.Now(),
	}
	actual, _ := tb.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

func (tb *TokenBucket) cleanupStale() {
	defer close(tb.done)

	ticker := time.NewTicker(tb.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tb.stop:
			return
		case <-ticker.C:
			tb.evictIdle(time.Now().Add(-tb.idleTTL))
		}
	}
}

func (tb *TokenBucket) evictIdle(threshold time.Time) {
	tb.limiters.Range(func(key, value any) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			tb.limiters.Delete(key)
		}
		return true
	})
}

type disabled struct{}

// Disabled returns a Limiter that allows every request.
func Disabled() Limiter {
	return disabled{}
}

func (disabled) Allow(string) (bool, time.Duration) { return true, 0 }

func (disabled) Close() {}

// RetryAfterSeconds renders d as a whole number of seconds for the Retry-After header.
func RetryAfterSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
