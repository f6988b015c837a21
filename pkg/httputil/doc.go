// Package httputil provides the retry machinery shared by directory clients.
//
// # Retry
//
// [Policy] wraps any failable operation and retries it while it fails with a
// transient error:
//
//	policy := httputil.NewPolicy(3, time.Second) // waits 2s, 4s, 8s
//	err := policy.Do(ctx, func(ctx context.Context) error {
//	    return fetch(ctx)
//	})
//
// Transient means errors.IsTransient from pkg/errors: TIMEOUT and
// TRANSPORT_FAILURE codes, or anything wrapped in errors.RetryableError.
// Supply Policy.Classify to use a different predicate and Policy.Backoff for
// a different delay curve.
//
// The policy never rewrites errors it receives. Non-transient errors return
// after the first attempt; after the last retry the final error is returned
// as-is. Backoff waits honour context cancellation and surface CANCELLED.
//
// # Configuration
//
// Default settings:
//
//   - Retries: 3 (four attempts total)
//   - Backoff unit: 1 second, doubled per attempt starting at 2 seconds
package httputil
