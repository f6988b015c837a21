package cli

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/userdir/pkg/observability"
)

// logHooks bridges client library events to the CLI logger and keeps
// counters that commands use to report whether a call was served from cache.
type logHooks struct {
	logger   *log.Logger
	requests atomic.Int64
	hits     atomic.Int64
	retries  atomic.Int64
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l}
}

// install registers h as the global cache, HTTP and retry hooks.
func (h *logHooks) install() {
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
	observability.SetRetryHooks(h)
}

// snapshot returns the current request count.
func (h *logHooks) snapshot() int64 { return h.requests.Load() }

// since reports how many requests were issued after the snapshot was taken.
func (h *logHooks) since(mark int64) int64 { return h.requests.Load() - mark }

func (h *logHooks) OnCacheHit(_ context.Context, key string) {
	h.hits.Add(1)
	h.logger.Debug("cache hit", "key", key)
}

func (h *logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h *logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

func (h *logHooks) OnCacheError(_ context.Context, key string, err error) {
	h.logger.Warn("cache error", "key", key, "err", err)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.requests.Add(1)
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}

func (h *logHooks) OnRetry(_ context.Context, attempt int, delay time.Duration, err error) {
	h.retries.Add(1)
	h.logger.Warn("retrying", "attempt", attempt, "delay", delay, "err", err)
}

func (h *logHooks) OnExhausted(_ context.Context, attempts int, err error) {
	h.logger.Error("giving up", "attempts", attempts, "err", err)
}

var (
	_ observability.CacheHooks = (*logHooks)(nil)
	_ observability.HTTPHooks  = (*logHooks)(nil)
	_ observability.RetryHooks = (*logHooks)(nil)
)
