package google

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
)

// Drive allows 10 requests per second per user. Stay below it.
const (
	DrivePerSecond = 8.0
	DriveBurst     = 10
)

// defaultPause applies when a quota error carries no Retry-After.
const defaultPause = 60 * time.Second

// Quota paces API calls with a token bucket and stops all calls for a
// while after the API reports its quota exhausted.
type Quota struct {
	bucket *rate.Limiter
	now    func() time.Time

	mu          sync.Mutex
	pausedUntil time.Time
}

// NewQuota allows perSecond sustained calls. perSecond <= 0 means unlimited.
func NewQuota(perSecond float64, burst int) *Quota {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &Quota{bucket: rate.NewLimiter(limit, max(burst, 1)), now: time.Now}
}

// DriveQuota paces calls under the Drive per-user limit.
func DriveQuota() *Quota { return NewQuota(DrivePerSecond, DriveBurst) }

// Wait blocks until a call may be made.
func (q *Quota) Wait(ctx context.Context) error {
	if d := q.PausedUntil().Sub(q.now()); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return q.bucket.Wait(ctx)
}

// Observe pauses the quota when err says the limit was hit and reports
// whether it did.
func (q *Quota) Observe(err error) bool {
	if !Exhausted(err) {
		return false
	}
	pause := defaultPause
	if s := RetryAfter(err); s > 0 {
		pause = time.Duration(s) * time.Second
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if until := q.now().Add(pause); until.After(q.pausedUntil) {
		q.pausedUntil = until
	}
	return true
}

// PausedUntil is the end of the current pause, or the zero time.
func (q *Quota) PausedUntil() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pausedUntil
}

// Exhausted reports a quota error: a 429, or a 403 whose reason names a
// rate limit, which is how Drive reports per-user limits.
func Exhausted(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	switch gerr.Code {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		for _, item := range gerr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return true
			}
		}
	}
	return false
}
