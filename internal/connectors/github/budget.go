package github

import (
	"context"
	"errors"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/time/rate"
)

const (
	// DefaultRate keeps an authenticated client inside 5000 requests per hour.
	DefaultRate = 1.2

	// reserve is the quota left untouched until the window resets.
	reserve = 10

	// abusePause applies when a secondary limit carries no Retry-After.
	abusePause = time.Minute
)

// budget paces requests and tracks the quota GitHub reports with every
// response.
type budget struct {
	bucket *rate.Limiter
	now    func() time.Time

	mu        sync.Mutex
	remaining int // -1 until the first response
	reset     time.Time
}

// newBudget allows rps sustained requests. rps <= 0 turns pacing off.
func newBudget(rps float64) *budget {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &budget{bucket: rate.NewLimiter(limit, 1), now: time.Now, remaining: -1}
}

// wait blocks for the next token and, when the quota is nearly spent,
// until the window resets.
func (b *budget) wait(ctx context.Context) error {
	if err := b.bucket.Wait(ctx); err != nil {
		return err
	}

	b.mu.Lock()
	var d time.Duration
	if b.remaining >= 0 && b.remaining < reserve {
		d = b.reset.Sub(b.now())
	}
	b.mu.Unlock()
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// observe records the quota of a response and the pause demanded by a
// rate limit error.
func (b *budget) observe(resp *gh.Response, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if resp != nil && resp.Response != nil && resp.Header.Get("X-RateLimit-Remaining") != "" {
		b.remaining = resp.Rate.Remaining
		if !resp.Rate.Reset.IsZero() {
			b.reset = resp.Rate.Reset.Time
		}
	}

	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	switch {
	case errors.As(err, &rateErr):
		b.remaining = 0
		b.reset = rateErr.Rate.Reset.Time
	case errors.As(err, &abuseErr):
		pause := abusePause
		if abuseErr.RetryAfter != nil {
			pause = *abuseErr.RetryAfter
		}
		b.remaining = 0
		b.reset = b.now().Add(pause)
	}
}

// Remaining is the last reported quota, or -1 before any response.
func (b *budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}
