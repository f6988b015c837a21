package reqres

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/userdir/pkg/cache"
	errs "github.com/matzehuels/userdir/pkg/errors"
	"github.com/matzehuels/userdir/pkg/httputil"
	"github.com/matzehuels/userdir/pkg/integrations"
)

const (
	// DefaultBaseURL is the public reqres.in API root.
	DefaultBaseURL = "https://reqres.in/api"

	// DefaultAPIKey is the free-tier key reqres.in accepts without sign-up.
	DefaultAPIKey = "reqres-free-v1"

	// APIKeyHeader carries the static API key on every request.
	APIKeyHeader = "x-api-key"

	// DefaultCacheTTL is how long fetched users stay cached.
	DefaultCacheTTL = 5 * time.Minute
)

// User is a single directory entry.
//
// ID is positive for every user returned by [Client]. The string fields are
// passed through as the remote sent them and may be empty.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// FullName joins the first and last name with a single space.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// UserService is the read API of a user directory.
type UserService interface {
	// GetUserByID returns the user with the given positive id.
	GetUserByID(ctx context.Context, id int) (*User, error)

	// GetAllUsers returns every user in page order.
	GetAllUsers(ctx context.Context) ([]User, error)
}

// Options configures a [Client]. Zero fields fall back to the defaults noted
// on each field, so Options{} yields a working reqres.in client without
// caching.
type Options struct {
	BaseURL     string                 // API root (default DefaultBaseURL)
	APIKey      string                 // value of the x-api-key header (default DefaultAPIKey)
	CacheTTL    time.Duration          // entry lifetime; <= 0 disables cache writes
	Retries     int                    // retries after the first attempt; negative means none
	BackoffUnit time.Duration          // n-th retry waits BackoffUnit * 2^n (default 1s)
	Transport   integrations.Transport // nil uses integrations.NewHTTPTransport
	Cache       cache.Cache            // nil disables caching
	Keyer       cache.Keyer            // nil uses cache.DefaultKeyer
}

// DefaultOptions returns the stock configuration: reqres.in, the free API
// key, an in-memory cache with a 5 minute TTL and 3 retries at 2s, 4s and 8s.
func DefaultOptions() Options {
	return Options{
		BaseURL:     DefaultBaseURL,
		APIKey:      DefaultAPIKey,
		CacheTTL:    DefaultCacheTTL,
		Retries:     httputil.DefaultRetries,
		BackoffUnit: httputil.DefaultBackoffUnit,
		Cache:       cache.NewMemoryCache(),
	}
}

// Client fetches users from a reqres.in style directory.
// It handles caching, retries with exponential backoff and error
// classification.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	keys    cache.Keyer
}

// NewClient creates a directory client from opts.
//
// Returns an INVALID_CONFIG error if opts.BaseURL is set but is not an
// absolute http(s) URL.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if err := errs.ValidateBaseURL(opts.BaseURL); err != nil {
		return nil, err
	}
	if opts.APIKey == "" {
		opts.APIKey = DefaultAPIKey
	}
	if opts.BackoffUnit <= 0 {
		opts.BackoffUnit = httputil.DefaultBackoffUnit
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}

	policy := httputil.NewPolicy(opts.Retries, opts.BackoffUnit)
	headers := map[string]string{
		APIKeyHeader: opts.APIKey,
		"Accept":     "application/json",
	}

	return &Client{
		Client:  integrations.NewClient(opts.Transport, opts.Cache, opts.CacheTTL, policy, headers),
		baseURL: opts.BaseURL,
		keys:    opts.Keyer,
	}, nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// GetUserByID retrieves a single user.
//
// A cached user is returned without network access. On a miss the user is
// fetched from {baseURL}/users/{id} under the retry policy and cached.
//
// Returns:
//   - INVALID_ARGUMENT if id <= 0, before any cache or network access
//   - SERVICE_ERROR for non-success statuses such as 404 (never retried)
//   - PARSE_ERROR if the body lacks a well-formed "data" object
//   - TIMEOUT or TRANSPORT_FAILURE once retries are exhausted
//   - CANCELLED if ctx ends first
//
// The returned pointer is never nil if err is nil.
func (c *Client) GetUserByID(ctx context.Context, id int) (*User, error) {
	if err := errs.ValidateUserID(id); err != nil {
		return nil, err
	}

	var user User
	err := c.Cached(ctx, c.keys.UserKey(id), &user, func(ctx context.Context) error {
		return c.fetchUser(ctx, id, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAllUsers retrieves every user, walking the pages in ascending order.
//
// The whole traversal runs under the retry policy: a transient failure on
// any page restarts from page 1. The aggregate is cached as a unit.
//
// Returns the same error codes as [Client.GetUserByID], with SERVICE_ERROR
// tagged by page. The returned slice is non-nil if err is nil.
func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := c.Cached(ctx, c.keys.AllUsersKey(), &users, func(ctx context.Context) error {
		all, err := c.fetchAll(ctx)
		if err != nil {
			return err
		}
		users = all
		return nil
	})
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

func (c *Client) fetchUser(ctx context.Context, id int, user *User) error {
	var resp userResponse
	err := c.Do(ctx, integrations.Request{
		URL:    integrations.JoinURL(c.baseURL, fmt.Sprintf("users/%d", id)),
		Op:     "get user",
		UserID: id,
	}, &resp)
	if err != nil {
		return err
	}

	if resp.Data == nil {
		return errs.New(errs.ErrCodeParse, "get user %d: response has no data", id)
	}
	if resp.Data.ID <= 0 {
		return errs.New(errs.ErrCodeParse, "get user %d: response has invalid id %d", id, resp.Data.ID)
	}
	*user = *resp.Data
	return nil
}

// fetchAll performs one complete traversal. Each call starts from page 1
// with an empty accumulator.
func (c *Client) fetchAll(ctx context.Context) ([]User, error) {
	users := []User{}
	for n := 1; ; n++ {
		p, err := c.fetchPage(ctx, n)
		if err != nil {
			return nil, err
		}
		users = append(users, *p.Data...)
		if p.Page >= p.TotalPages {
			return users, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, n int) (*pageResponse, error) {
	var p pageResponse
	err := c.Do(ctx, integrations.Request{
		URL:  integrations.JoinURL(c.baseURL, fmt.Sprintf("users?page=%d", n)),
		Op:   "list users",
		Page: n,
	}, &p)
	if err != nil {
		return nil, err
	}

	if p.Data == nil {
		return nil, errs.New(errs.ErrCodeParse, "list users page %d: response has no data", n)
	}
	// A server that ignores the page parameter would otherwise loop forever.
	if p.Page != n {
		return nil, errs.New(errs.ErrCodeParse, "list users page %d: response reports page %d", n, p.Page)
	}
	return &p, nil
}

type userResponse struct {
	Data *User `json:"data"`
}

type pageResponse struct {
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Data       *[]User `json:"data"`
}

// Ensure Client implements UserService.
var _ UserService = (*Client)(nil)
