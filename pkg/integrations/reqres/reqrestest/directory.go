// Package reqrestest provides an in-process fake of the reqres.in user
// directory for tests and offline use.
//
// A [Directory] serves the two endpoints the directory client uses:
//
//	GET /users?page={n}
//	GET /users/{id}
//
// Failures are scripted with [Directory.Enqueue]: each queued [Fault] answers
// exactly one request, in order, before normal responses resume. Every request
// is recorded so tests can assert on call counts and headers.
//
// Usage:
//
//	dir := reqrestest.New(reqrestest.SampleUsers(5), reqrestest.WithPerPage(2))
//	srv := httptest.NewServer(dir.Handler())
//	defer srv.Close()
//
//	dir.Fail(http.StatusRequestTimeout) // first request times out
package reqrestest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultPerPage matches the page size of the public reqres.in API.
const DefaultPerPage = 6

// User is the wire shape of a directory entry.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// Fault overrides the response to a single request.
type Fault struct {
	Status int           // response status; 0 means 200
	Body   string        // raw response body, sent as is
	Delay  time.Duration // wait before answering; aborted if the client goes away
}

// Request is a recorded incoming request.
type Request struct {
	Path      string
	Query     string
	APIKey    string
	RequestID string
}

// Directory is a fake user directory. It is safe for concurrent use.
type Directory struct {
	mu       sync.Mutex
	users    []User
	perPage  int
	apiKey   string
	faults   []Fault
	requests []Request
}

// Option configures a Directory.
type Option func(*Directory)

// WithPerPage sets the page size. Values below 1 are ignored.
func WithPerPage(n int) Option {
	return func(d *Directory) {
		if n > 0 {
			d.perPage = n
		}
	}
}

// WithAPIKey makes the directory reject requests whose x-api-key header does
// not equal key with 401 Unauthorized.
func WithAPIKey(key string) Option {
	return func(d *Directory) { d.apiKey = key }
}

// New creates a directory serving users in the given order.
func New(users []User, opts ...Option) *Directory {
	d := &Directory{
		users:   append([]User(nil), users...),
		perPage: DefaultPerPage,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SampleUsers returns n users with ids 1..n in the style of reqres.in.
func SampleUsers(n int) []User {
	first := []string{"George", "Janet", "Emma", "Eve", "Charles", "Tracey", "Michael", "Lindsay", "Tobias", "Byron", "George", "Rachel"}
	last := []string{"Bluth", "Weaver", "Wong", "Holt", "Morris", "Ramos", "Lawson", "Ferguson", "Funke", "Fields", "Edwards", "Howell"}

	users := make([]User, n)
	for i := range users {
		f, l := first[i%len(first)], last[i%len(last)]
		users[i] = User{
			ID:        i + 1,
			FirstName: f,
			LastName:  l,
			Email:     fmt.Sprintf("%s.%s@reqres.in", strings.ToLower(f), strings.ToLower(l)),
			Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", i+1),
		}
	}
	return users
}

// Enqueue schedules faults for the next requests, one fault per request.
func (d *Directory) Enqueue(faults ...Fault) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.faults = append(d.faults, faults...)
}

// Fail schedules an empty response with each status for the next requests.
func (d *Directory) Fail(statuses ...int) {
	faults := make([]Fault, len(statuses))
	for i, s := range statuses {
		faults[i] = Fault{Status: s}
	}
	d.Enqueue(faults...)
}

// Hits returns the number of requests served so far, including faults.
func (d *Directory) Hits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

// Requests returns a copy of the recorded requests in arrival order.
func (d *Directory) Requests() []Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Request(nil), d.requests...)
}

// TotalPages reports how many pages the directory spans.
func (d *Directory) TotalPages() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalPages()
}

// Handler returns the HTTP handler serving the directory.
func (d *Directory) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(d.record)
	r.Use(d.inject)
	r.Use(d.authorize)

	r.Get("/users", d.listUsers)
	r.Get("/users/{id}", d.getUser)
	return r
}

func (d *Directory) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		d.requests = append(d.requests, Request{
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			APIKey:    r.Header.Get("x-api-key"),
			RequestID: r.Header.Get("X-Request-Id"),
		})
		d.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (d *Directory) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := d.nextFault()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if f.Delay > 0 {
			select {
			case <-time.After(f.Delay):
			case <-r.Context().Done():
				return
			}
		}
		status := f.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(f.Body))
	})
}

func (d *Directory) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d.apiKey != "" && r.Header.Get("x-api-key") != d.apiKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Missing API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (d *Directory) nextFault() (Fault, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.faults) == 0 {
		return Fault{}, false
	}
	f := d.faults[0]
	d.faults = d.faults[1:]
	return f, true
}

type pageBody struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Data       []User `json:"data"`
}

func (d *Directory) listUsers(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	d.mu.Lock()
	start := min((page-1)*d.perPage, len(d.users))
	end := min(start+d.perPage, len(d.users))
	body := pageBody{
		Page:       page,
		PerPage:    d.perPage,
		Total:      len(d.users),
		TotalPages: d.totalPages(),
		Data:       append([]User{}, d.users[start:end]...),
	}
	d.mu.Unlock()

	writeJSON(w, http.StatusOK, body)
}

func (d *Directory) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}

	d.mu.Lock()
	var found *User
	for i := range d.users {
		if d.users[i].ID == id {
			u := d.users[i]
			found = &u
			break
		}
	}
	d.mu.Unlock()

	if found == nil {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": found})
}

func (d *Directory) totalPages() int {
	return (len(d.users) + d.perPage - 1) / d.perPage
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
