package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "user_1")
	c.OnCacheMiss(ctx, "all_users")
	c.OnCacheSet(ctx, "user_1", 128)
	c.OnCacheError(ctx, "user_1", errors.New("boom"))

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "reqres.in", "/api/users/1")
	h.OnResponse(ctx, "GET", "reqres.in", "/api/users/1", 200, time.Second)
	h.OnError(ctx, "GET", "reqres.in", "/api/users/1", nil)

	// Retry hooks
	r := NoopRetryHooks{}
	r.OnRetry(ctx, 1, 2*time.Second, errors.New("timeout"))
	r.OnExhausted(ctx, 4, errors.New("timeout"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}
	if _, ok := Retry().(NoopRetryHooks); !ok {
		t.Error("Retry() should return NoopRetryHooks by default")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	customRetry := &testRetryHooks{}
	SetRetryHooks(customRetry)
	if Retry() != customRetry {
		t.Error("SetRetryHooks should set custom hooks")
	}

	Reset()
	if _, ok := Retry().(NoopRetryHooks); !ok {
		t.Error("Reset() should restore NoopRetryHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRetryHooks{}
	SetRetryHooks(custom)
	SetRetryHooks(nil)

	if Retry() != custom {
		t.Error("SetRetryHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
type testRetryHooks struct{ NoopRetryHooks }
