package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

// ErrNetwork is the root cause attached to TRANSPORT_FAILURE errors produced
// by [HTTPTransport] when a request got no response.
var ErrNetwork = errors.New("network error")

// NewHTTPClient creates an HTTP client with a standard timeout for directory requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// JoinURL appends path to base, collapsing duplicate slashes at the seam.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
