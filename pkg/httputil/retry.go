package httputil

import (
	"context"
	"time"

	errs "github.com/matzehuels/userdir/pkg/errors"
	"github.com/matzehuels/userdir/pkg/observability"
)

// DefaultBackoffUnit is the base of the default exponential backoff. The
// n-th retry waits DefaultBackoffUnit * 2^n.
const DefaultBackoffUnit = time.Second

// DefaultRetries is the number of retries used by [RetryWithBackoff].
const DefaultRetries = 3

// Policy retries an operation on transient failures with a growing delay.
//
// A Policy is a plain value and holds no state between calls to [Policy.Do];
// every call starts a fresh attempt counter. The zero value retries nothing.
type Policy struct {
	// Retries is the maximum number of retries after the first attempt.
	// Do makes at most Retries+1 calls. Negative values behave as 0.
	Retries int

	// Backoff returns the delay before retry number attempt (starting at 1).
	// Nil uses ExponentialBackoff(DefaultBackoffUnit).
	Backoff func(attempt int) time.Duration

	// Classify reports whether err is transient. Nil uses errors.IsTransient.
	Classify func(err error) bool

	// OnRetry, if set, is called before each backoff wait.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// NewPolicy creates a Policy with the default classifier and an exponential
// backoff of unit * 2^attempt.
func NewPolicy(retries int, unit time.Duration) Policy {
	return Policy{
		Retries: retries,
		Backoff: ExponentialBackoff(unit),
	}
}

// ExponentialBackoff returns a backoff function yielding unit * 2^attempt,
// i.e. 2, 4, 8 units for attempts 1, 2, 3.
func ExponentialBackoff(unit time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 0 {
			attempt = 0
		}
		return unit * time.Duration(1<<uint(attempt))
	}
}

// Do executes fn, retrying while it fails with a transient error.
//
// Non-transient errors are returned immediately. Once the retry budget is
// spent, the last error is returned unchanged. If ctx is cancelled before an
// attempt or during a backoff wait, Do returns a CANCELLED error wrapping
// ctx.Err() without calling fn again.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	retries := max(p.Retries, 0)
	classify := p.Classify
	if classify == nil {
		classify = errs.IsTransient
	}
	backoff := p.Backoff
	if backoff == nil {
		backoff = ExponentialBackoff(DefaultBackoffUnit)
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return cancelled(err)
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !classify(err) {
			return err
		}
		if attempt >= retries {
			observability.Retry().OnExhausted(ctx, attempt+1, err)
			return err
		}

		delay := backoff(attempt + 1)
		observability.Retry().OnRetry(ctx, attempt+1, delay, err)
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, delay, err)
		}
		if err := wait(ctx, delay); err != nil {
			return cancelled(err)
		}
	}
}

// RetryWithBackoff is a convenience wrapper around [Policy.Do] with the
// default settings: 3 retries, waits of 2s, 4s and 8s.
func RetryWithBackoff(ctx context.Context, fn func(ctx context.Context) error) error {
	return NewPolicy(DefaultRetries, DefaultBackoffUnit).Do(ctx, fn)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func cancelled(err error) error {
	return errs.Wrap(errs.ErrCodeCancelled, err, "operation cancelled")
}
