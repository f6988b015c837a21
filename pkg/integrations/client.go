package integrations

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/matzehuels/userdir/pkg/cache"
	errs "github.com/matzehuels/userdir/pkg/errors"
	"github.com/matzehuels/userdir/pkg/httputil"
	"github.com/matzehuels/userdir/pkg/observability"
)

// Client provides shared HTTP functionality for directory API clients.
// It handles caching, retry logic, status classification and common
// request headers.
//
// All methods are safe for concurrent use.
type Client struct {
	transport Transport
	cache     cache.Cache
	ttl       time.Duration
	policy    httputil.Policy
	headers   map[string]string
}

// NewClient creates a Client.
//
// A nil transport uses [NewHTTPTransport]; a nil cache disables caching.
// Entries are stored for ttl; a ttl <= 0 skips cache writes entirely.
// Headers are applied to all requests made through this client; pass nil
// if no default headers are needed.
func NewClient(transport Transport, c cache.Cache, ttl time.Duration, policy httputil.Policy, headers map[string]string) *Client {
	if transport == nil {
		transport = NewHTTPTransport()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		transport: transport,
		cache:     c,
		ttl:       ttl,
		policy:    policy,
		headers:   headers,
	}
}

// Request describes a single GET against the remote API. Op, UserID and
// Page only feed error context.
type Request struct {
	URL     string
	Headers map[string]string
	Op      string
	UserID  int
	Page    int
}

// Cached retrieves a value from cache or executes fetch under the retry
// policy and caches the result.
//
// On a hit the cached JSON is decoded into v and fetch is not called. On a
// miss fetch must populate v; once it succeeds v is encoded and stored with
// the client's TTL. Cache read and write failures are reported through
// observability hooks and never fail the call.
func (c *Client) Cached(ctx context.Context, key string, v any, fetch func(ctx context.Context) error) error {
	hooks := observability.Cache()

	data, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		hooks.OnCacheError(ctx, key, err)
	case ok:
		if err = json.Unmarshal(data, v); err == nil {
			hooks.OnCacheHit(ctx, key)
			return nil
		}
		// Undecodable entry: fall through and refetch.
		hooks.OnCacheError(ctx, key, err)
	}
	hooks.OnCacheMiss(ctx, key)

	if err := c.policy.Do(ctx, fetch); err != nil {
		return err
	}

	if c.ttl <= 0 {
		return nil
	}
	data, err = json.Marshal(v)
	if err == nil {
		err = c.cache.Set(ctx, key, data, c.ttl)
	}
	if err != nil {
		hooks.OnCacheError(ctx, key, err)
		return nil
	}
	hooks.OnCacheSet(ctx, key, len(data))
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It does not retry; wrap calls in [Client.Cached] or a [httputil.Policy].
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.Do(ctx, Request{URL: url, Op: "GET " + url}, v)
}

// Do performs req, classifies the response status and JSON-decodes a
// successful body into v.
//
// Returns:
//   - TIMEOUT when the remote answered 408 Request Timeout (transient)
//   - SERVICE_ERROR with a *errors.StatusError cause for any other non-2xx
//   - PARSE_ERROR when the body is not valid JSON for v
//   - the transport's classified error when no response arrived
func (c *Client) Do(ctx context.Context, req Request, v any) error {
	headers := make(map[string]string, len(c.headers)+len(req.Headers))
	for k, val := range c.headers {
		headers[k] = val
	}
	for k, val := range req.Headers {
		headers[k] = val
	}

	resp, err := c.transport.Get(ctx, req.URL, headers)
	if err != nil {
		return err
	}
	if err := checkStatus(req, resp.StatusCode); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return errs.Wrap(errs.ErrCodeParse, err, "%s: decode response", req.Op)
	}
	return nil
}

func checkStatus(req Request, code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusRequestTimeout:
		return errs.Wrap(errs.ErrCodeTimeout, statusError(req, code), "request timed out")
	default:
		return errs.Wrap(errs.ErrCodeService, statusError(req, code), "%s failed", req.Op)
	}
}

func statusError(req Request, code int) *errs.StatusError {
	return &errs.StatusError{Op: req.Op, UserID: req.UserID, Page: req.Page, StatusCode: code}
}
