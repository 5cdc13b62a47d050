package api

import (
	"context"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/xavierca1/seller-console/internal/infra/metrics"
)

const (
	DefaultErrorRate = 0.05
	DefaultMinDelay  = 300 * time.Millisecond
	DefaultMaxDelay  = 1000 * time.Millisecond
)

// Config tunes the simulated backend. Nil fields fall back to the defaults,
// so an explicit zero (a fully deterministic transport, or no minimum delay)
// keeps its meaning. Tests inject Rand and Sleep for deterministic behavior.
type Config struct {
	ErrorRate *float64
	MinDelay  *time.Duration
	MaxDelay  *time.Duration
	Rand      func() float64
	Sleep     func(ctx context.Context, d time.Duration) error
}

// Client stands in for a remote backend: every operation pays a random
// latency tax and may fail with a transient error before it even runs. The
// cache layer above is written against this exactly as it would be against a
// real flaky service.
type Client struct {
	mu        sync.Mutex
	errorRate float64
	minDelay  time.Duration
	maxDelay  time.Duration
	randFn    func() float64
	sleepFn   func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config) *Client {
	c := &Client{
		errorRate: DefaultErrorRate,
		minDelay:  DefaultMinDelay,
		maxDelay:  DefaultMaxDelay,
		randFn:    cfg.Rand,
		sleepFn:   cfg.Sleep,
	}
	if cfg.ErrorRate != nil {
		c.SetErrorRate(*cfg.ErrorRate)
	}
	if cfg.MinDelay != nil || cfg.MaxDelay != nil {
		min, max := c.minDelay, c.maxDelay
		if cfg.MinDelay != nil {
			min = *cfg.MinDelay
		}
		if cfg.MaxDelay != nil {
			max = *cfg.MaxDelay
		}
		c.SetDelayRange(min, max)
	}
	if c.randFn == nil {
		c.randFn = rand.Float64
	}
	if c.sleepFn == nil {
		c.sleepFn = sleep
	}
	return c
}

// Options tweaks a single call. ErrorRate, when set, overrides the client's
// configured rate for this call only.
type Options struct {
	SkipDelay bool
	ErrorRate *float64
}

// SetErrorRate clamps rate to [0,1] and applies it to subsequent calls.
func (c *Client) SetErrorRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	c.errorRate = rate
}

// SetDelayRange clamps min to >=0 and max to >=min.
func (c *Client) SetDelayRange(min, max time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	c.minDelay = min
	c.maxDelay = max
}

func (c *Client) ErrorRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorRate
}

func (c *Client) DelayRange() (min, max time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.minDelay, c.maxDelay
}

func (c *Client) snapshot() (rate float64, min, max time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorRate, c.minDelay, c.maxDelay
}

// Do runs op as a simulated request: random delay, possible injected failure
// before op runs, and classification of anything op itself throws.
func Do[T any](ctx context.Context, c *Client, op func() (T, error), opts *Options) (T, error) {
	var zero T

	rate, min, max := c.snapshot()
	if opts != nil && opts.ErrorRate != nil {
		rate = *opts.ErrorRate
	}

	if opts == nil || !opts.SkipDelay {
		delay := min
		if max > min {
			delay = min + time.Duration(c.randFn()*float64(max-min))
		}
		if err := c.sleepFn(ctx, delay); err != nil {
			return zero, Internal(err.Error())
		}
	}

	if c.randFn() < rate {
		status := http.StatusInternalServerError
		if c.randFn() > 0.5 {
			status = http.StatusServiceUnavailable
		}
		metrics.RecordSimulatedFailure()
		return zero, Network("simulated network error", status)
	}

	result, err := op()
	if err != nil {
		if apiErr, ok := AsError(err); ok {
			return zero, apiErr
		}
		return zero, Internal(err.Error())
	}
	return result, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
