package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/userdir/pkg/cache"
	errs "github.com/matzehuels/userdir/pkg/errors"
	"github.com/matzehuels/userdir/pkg/httputil"
)

var noRetry = httputil.Policy{Backoff: func(int) time.Duration { return 0 }}

func TestNewClient(t *testing.T) {
	c := cache.NewMemoryCache()
	headers := map[string]string{"x-api-key": "secret"}
	client := NewClient(nil, c, time.Hour, noRetry, headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.transport == nil {
		t.Error("NewClient() should default the transport")
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["x-api-key"] != "secret" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, nil, time.Hour, noRetry, nil)
	if _, ok := client.cache.(*cache.NullCache); !ok {
		t.Errorf("nil cache should become NullCache, got %T", client.cache)
	}
	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(NewHTTPTransport(WithHTTPClient(server.Client())), nil, 0, noRetry, nil)

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientDoHeaders(t *testing.T) {
	var got http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(NewHTTPTransport(WithHTTPClient(server.Client())), nil, 0, noRetry,
		map[string]string{"X-Default": "default", "X-Override": "default"})

	var resp map[string]any
	err := client.Do(context.Background(), Request{
		URL:     server.URL,
		Headers: map[string]string{"X-Override": "overridden"},
	}, &resp)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if got.Get("X-Default") != "default" {
		t.Errorf("default header = %q, want %q", got.Get("X-Default"), "default")
	}
	if got.Get("X-Override") != "overridden" {
		t.Errorf("override header = %q, want %q", got.Get("X-Override"), "overridden")
	}
	if got.Get(RequestIDHeader) == "" {
		t.Error("request id header should be set")
	}
}

func TestClientDoStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCode  errs.Code
		transient bool
	}{
		{"ok", http.StatusOK, `{}`, "", false},
		{"created", http.StatusCreated, `{}`, "", false},
		{"request timeout", http.StatusRequestTimeout, ``, errs.ErrCodeTimeout, true},
		{"not found", http.StatusNotFound, ``, errs.ErrCodeService, false},
		{"unauthorized", http.StatusUnauthorized, ``, errs.ErrCodeService, false},
		{"internal", http.StatusInternalServerError, ``, errs.ErrCodeService, false},
		{"unavailable", http.StatusServiceUnavailable, ``, errs.ErrCodeService, false},
		{"bad json", http.StatusOK, `{not json`, errs.ErrCodeParse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(NewHTTPTransport(WithHTTPClient(server.Client())), nil, 0, noRetry, nil)

			var resp map[string]any
			err := client.Do(context.Background(), Request{URL: server.URL, Op: "get user", UserID: 9}, &resp)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Do() unexpected error: %v", err)
				}
				return
			}
			if !errs.Is(err, tt.wantCode) {
				t.Fatalf("Do() error = %v, want code %s", err, tt.wantCode)
			}
			if errs.IsTransient(err) != tt.transient {
				t.Errorf("IsTransient() = %v, want %v", errs.IsTransient(err), tt.transient)
			}
			if tt.wantCode == errs.ErrCodeService {
				var se *errs.StatusError
				if !errors.As(err, &se) {
					t.Fatalf("SERVICE_ERROR should carry *StatusError, got %v", err)
				}
				if se.StatusCode != tt.status || se.UserID != 9 || se.Op != "get user" {
					t.Errorf("StatusError = %+v", se)
				}
			}
		})
	}
}

// countingTransport serves a fixed JSON body and counts calls.
type countingTransport struct {
	calls int
	body  string
	err   error
}

func (f *countingTransport) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Response{StatusCode: http.StatusOK, Body: []byte(f.body)}, nil
}

func TestClientCached(t *testing.T) {
	ctx := context.Background()
	tr := &countingTransport{body: `{"value":"fetched"}`}
	client := NewClient(tr, cache.NewMemoryCache(), time.Hour, noRetry, nil)

	type payload struct {
		Value string `json:"value"`
	}

	for i := 0; i < 3; i++ {
		var v payload
		err := client.Cached(ctx, "key", &v, func(ctx context.Context) error {
			return client.Get(ctx, "http://example.invalid", &v)
		})
		if err != nil {
			t.Fatalf("Cached() error: %v", err)
		}
		if v.Value != "fetched" {
			t.Errorf("value = %q, want %q", v.Value, "fetched")
		}
	}
	if tr.calls != 1 {
		t.Errorf("transport calls = %d, want 1", tr.calls)
	}
}

func TestClientCachedZeroTTLSkipsWrite(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache()
	client := NewClient(&countingTransport{body: `"x"`}, store, 0, noRetry, nil)

	var v string
	err := client.Cached(ctx, "key", &v, func(ctx context.Context) error {
		return client.Get(ctx, "http://example.invalid", &v)
	})
	if err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("ttl 0 should not write to the cache, Len() = %d", store.Len())
	}
}

func TestClientCachedCorruptEntryRefetches(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache()
	_ = store.Set(ctx, "key", []byte("{corrupt"), time.Hour)

	tr := &countingTransport{body: `{"value":"fresh"}`}
	client := NewClient(tr, store, time.Hour, noRetry, nil)

	var v struct {
		Value string `json:"value"`
	}
	if err := client.Cached(ctx, "key", &v, func(ctx context.Context) error {
		return client.Get(ctx, "http://example.invalid", &v)
	}); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if tr.calls != 1 || v.Value != "fresh" {
		t.Errorf("calls = %d, value = %q; want 1, fresh", tr.calls, v.Value)
	}
}

func TestClientCachedFetchError(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache()
	failure := errs.New(errs.ErrCodeService, "status 404")
	client := NewClient(&countingTransport{}, store, time.Hour, noRetry, nil)

	var v string
	err := client.Cached(ctx, "key", &v, func(ctx context.Context) error { return failure })
	if err != failure {
		t.Errorf("Cached() = %v, want %v", err, failure)
	}
	if store.Len() != 0 {
		t.Error("failed fetch must not populate the cache")
	}
}

func TestClientCachedRetries(t *testing.T) {
	ctx := context.Background()
	tr := &countingTransport{err: errs.New(errs.ErrCodeTransport, "connection refused")}
	policy := httputil.Policy{Retries: 2, Backoff: func(int) time.Duration { return 0 }}
	client := NewClient(tr, nil, time.Hour, policy, nil)

	var v string
	err := client.Cached(ctx, "key", &v, func(ctx context.Context) error {
		return client.Get(ctx, "http://example.invalid", &v)
	})
	if !errs.Is(err, errs.ErrCodeTransport) {
		t.Errorf("Cached() = %v, want TRANSPORT_FAILURE", err)
	}
	if tr.calls != 3 {
		t.Errorf("transport calls = %d, want 3", tr.calls)
	}
}

func TestHTTPTransportTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	tr := NewHTTPTransport(WithHTTPClient(server.Client()), WithTimeout(20*time.Millisecond))
	_, err := tr.Get(context.Background(), server.URL, nil)
	if !errs.Is(err, errs.ErrCodeTimeout) {
		t.Fatalf("Get() error = %v, want TIMEOUT", err)
	}
	if !errs.IsTransient(err) {
		t.Error("client timeout should be transient")
	}
}

func TestHTTPTransportCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	tr := NewHTTPTransport(WithHTTPClient(server.Client()))
	_, err := tr.Get(ctx, server.URL, nil)
	if !errs.Is(err, errs.ErrCodeCancelled) {
		t.Fatalf("Get() error = %v, want CANCELLED", err)
	}
	if errs.IsTransient(err) {
		t.Error("caller cancellation must not be retried")
	}
}

func TestHTTPTransportConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	tr := NewHTTPTransport()
	_, err := tr.Get(context.Background(), url, nil)
	if !errs.Is(err, errs.ErrCodeTransport) {
		t.Fatalf("Get() error = %v, want TRANSPORT_FAILURE", err)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("transport failure should wrap ErrNetwork")
	}
}

func TestHTTPTransportReturnsNonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer server.Close()

	resp, err := NewHTTPTransport(WithHTTPClient(server.Client())).Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.StatusCode != http.StatusTeapot || string(resp.Body) != "short and stout" {
		t.Errorf("Get() = %d %q", resp.StatusCode, resp.Body)
	}
}

func TestHTTPTransportCircuitBreaker(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	tr := NewHTTPTransport(WithCircuitBreaker(2, time.Hour))
	for i := 0; i < 2; i++ {
		if _, err := tr.Get(context.Background(), url, nil); err == nil {
			t.Fatal("expected connection failure")
		}
	}

	_, err := tr.Get(context.Background(), url, nil)
	if !errs.Is(err, errs.ErrCodeTransport) {
		t.Fatalf("open breaker error = %v, want TRANSPORT_FAILURE", err)
	}
	if errors.Is(err, ErrNetwork) {
		t.Error("open breaker should fail fast without touching the network")
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient()
	if client == nil {
		t.Fatal("NewHTTPClient() returned nil")
	}
	if client.Timeout != httpTimeout {
		t.Errorf("Timeout = %v, want %v", client.Timeout, httpTimeout)
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"https://reqres.in/api", "users", "https://reqres.in/api/users"},
		{"https://reqres.in/api/", "/users/1", "https://reqres.in/api/users/1"},
		{"http://localhost:8080", "users?page=2", "http://localhost:8080/users?page=2"},
	}
	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
