// Package ratelimit throttles mutating requests per client IP.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"finovo/internal/metrics"
)

const window = time.Minute

type Config struct {
	RequestsPerMinute int
	// CleanupInterval is how often idle clients are forgotten.
	CleanupInterval time.Duration
	// IdleTimeout is how long a client may stay silent before it is dropped.
	IdleTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{RequestsPerMinute: 60, CleanupInterval: 5 * time.Minute, IdleTimeout: 10 * time.Minute}
}

// counter is one client's fixed window.
type counter struct {
	start, last time.Time
	n           int
}

// Limiter counts requests per client in fixed one-minute windows.
type Limiter struct {
	cfg  Config
	now  func() time.Time
	done chan struct{}
	once sync.Once

	mu       sync.Mutex
	counters map[string]*counter
}

func NewLimiter(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = def.RequestsPerMinute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = def.IdleTimeout
	}
	l := &Limiter{cfg: cfg, now: time.Now, done: make(chan struct{}), counters: map[string]*counter{}}
	go l.janitor()
	return l
}

// Allow reports whether another request from key fits in its window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c := l.counters[key]
	if c == nil || now.Sub(c.start) >= window {
		c = &counter{start: now}
		l.counters[key] = c
	}
	c.n++
	c.last = now
	return c.n <= l.cfg.RequestsPerMinute
}

func (l *Limiter) janitor() {
	t := time.NewTicker(l.cfg.CleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-t.C:
			l.forgetIdle()
		}
	}
}

func (l *Limiter) forgetIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.cfg.IdleTimeout)
	for k, c := range l.counters {
		if c.last.Before(cutoff) {
			delete(l.counters, k)
		}
	}
}

// ActiveClients is the number of clients currently tracked.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counters)
}

// Stop ends the janitor goroutine.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.done) })
}

// Middleware limits mutating requests; reads pass through. onLimit writes
// the rejection, or a plain 429 when nil.
func (l *Limiter) Middleware(keyOf func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(window / time.Second))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if l.Allow(keyOf(r)) {
				next.ServeHTTP(w, r)
				return
			}
			metrics.RateLimited.Inc()
			w.Header().Set("Retry-After", retryAfter)
			if onLimit == nil {
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			onLimit(w, r)
		})
	}
}
