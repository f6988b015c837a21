// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about cache lookups, HTTP calls, and retries.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The client library never logs directly; the CLI registers hooks that
// forward events to its logger.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    observability.SetRetryHooks(&myRetryHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Cache().OnCacheHit(ctx, key)
//	observability.Retry().OnRetry(ctx, attempt, delay, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, key string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, key string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, key string, size int)

	// OnCacheError records a failed cache read or write. Cache errors never
	// fail the surrounding operation.
	OnCacheError(ctx context.Context, key string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Retry Hooks
// =============================================================================

// RetryHooks receives events from retry policies.
type RetryHooks interface {
	// OnRetry records that attempt failed transiently and the policy will
	// wait delay before the next one. attempt starts at 1.
	OnRetry(ctx context.Context, attempt int, delay time.Duration, err error)

	// OnExhausted records that the policy gave up after attempts calls.
	OnExhausted(ctx context.Context, attempts int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)          {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)         {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)     {}
func (NoopCacheHooks) OnCacheError(context.Context, string, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopRetryHooks is a no-op implementation of RetryHooks.
type NoopRetryHooks struct{}

func (NoopRetryHooks) OnRetry(context.Context, int, time.Duration, error) {}
func (NoopRetryHooks) OnExhausted(context.Context, int, error)            {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	retryHooks RetryHooks = NoopRetryHooks{}
	hooksMu    sync.RWMutex
)

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetRetryHooks registers custom retry hooks.
func SetRetryHooks(h RetryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		retryHooks = h
	}
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Retry returns the registered retry hooks.
func Retry() RetryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return retryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
	retryHooks = NoopRetryHooks{}
}
