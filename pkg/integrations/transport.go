package integrations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	errs "github.com/matzehuels/userdir/pkg/errors"
	"github.com/matzehuels/userdir/pkg/observability"
)

// RequestIDHeader carries a fresh UUID on every outgoing request so that
// retries of the same logical call can be told apart in server logs.
const RequestIDHeader = "X-Request-Id"

// Response is the status code and fully read body of a GET request.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport issues GET requests. It is the seam between the directory client
// and the network; tests substitute scripted implementations.
//
// Implementations return a non-nil Response for every status code the remote
// produced. Errors are reserved for requests that got no response at all and
// must be classified: CANCELLED when ctx ended, TIMEOUT for request
// deadlines, TRANSPORT_FAILURE for everything else.
type Transport interface {
	Get(ctx context.Context, url string, headers map[string]string) (*Response, error)
}

// HTTPTransport implements [Transport] on top of net/http.
//
// All methods are safe for concurrent use.
type HTTPTransport struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// TransportOption configures an HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		if c != nil {
			t.http = c
		}
	}
}

// WithTimeout sets the per-request timeout. Exceeding it yields a TIMEOUT error.
func WithTimeout(d time.Duration) TransportOption {
	return func(t *HTTPTransport) {
		if d > 0 {
			t.http.Timeout = d
		}
	}
}

// WithCircuitBreaker guards requests with a circuit breaker that opens after
// threshold consecutive transport failures and stays open for cooldown.
// While open, Get fails fast with TRANSPORT_FAILURE.
func WithCircuitBreaker(threshold uint32, cooldown time.Duration) TransportOption {
	return func(t *HTTPTransport) {
		t.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "userdir-transport",
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				return err == nil || !errs.IsTransient(err)
			},
		})
	}
}

// NewHTTPTransport creates a transport with the standard request timeout.
func NewHTTPTransport(opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{http: NewHTTPClient()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Get performs the request and reads the whole body.
func (t *HTTPTransport) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	if t.breaker == nil {
		return t.do(ctx, url, headers)
	}

	res, err := t.breaker.Execute(func() (any, error) {
		return t.do(ctx, url, headers)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errs.Wrap(errs.ErrCodeTransport, err, "GET %s", url)
		}
		return nil, err
	}
	return res.(*Response), nil
}

func (t *HTTPTransport) do(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidArgument, err, "build request for %s", url)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := t.http.Do(req)
	if err != nil {
		err = classifyTransportError(ctx, err, url)
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = classifyTransportError(ctx, err, url)
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		return nil, err
	}

	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// classifyTransportError maps a failed round trip onto the error taxonomy.
// The caller's context is checked first so that caller-side cancellation is
// never mistaken for a retryable timeout.
func classifyTransportError(ctx context.Context, err error, url string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errs.Wrap(errs.ErrCodeCancelled, ctxErr, "GET %s", url)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return errs.Wrap(errs.ErrCodeTimeout, err, "GET %s", url)
	}
	return errs.Wrap(errs.ErrCodeTransport, fmt.Errorf("%w: %v", ErrNetwork, err), "GET %s", url)
}

// Ensure HTTPTransport implements Transport.
var _ Transport = (*HTTPTransport)(nil)
