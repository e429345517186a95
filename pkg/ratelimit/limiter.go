package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Allow checks if a request is allowed under the current rate limit
	Allow() bool
	// Wait blocks until the rate limit allows another request or ctx ends
	Wait(ctx context.Context) error
}

// Config holds limiter settings. A non-positive RequestsPerSecond disables
// limiting.
type Config struct {
	RequestsPerSecond float64
	Burst             int
}

// TokenBucket wraps a rate.Limiter behind the Limiter interface
type TokenBucket struct {
	limiter *rate.Limiter
}

// New creates a token bucket from cfg
func New(cfg Config) *TokenBucket {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &TokenBucket{limiter: rate.NewLimiter(limit, burst)}
}

// Allow checks if a request can proceed
func (tb *TokenBucket) Allow() bool {
	return tb.limiter.Allow()
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait(ctx context.Context) error {
	if err := tb.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// PerHost keeps one bucket per URL host, so catalog queries and image
// downloads from a different host do not starve each other.
type PerHost struct {
	mu      sync.Mutex
	cfg     Config
	buckets map[string]*TokenBucket
}

// NewPerHost creates a per-host limiter using cfg for every host
func NewPerHost(cfg Config) *PerHost {
	return &PerHost{cfg: cfg, buckets: make(map[string]*TokenBucket)}
}

// Wait blocks until rawURL's host may be requested again
func (p *PerHost) Wait(ctx context.Context, rawURL string) error {
	return p.bucket(rawURL).Wait(ctx)
}

func (p *PerHost) bucket(rawURL string) *TokenBucket {
	host := "unknown"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.buckets[host]
	if !ok {
		b = New(p.cfg)
		p.buckets[host] = b
	}
	return b
}
