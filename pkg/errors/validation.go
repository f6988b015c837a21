package errors

import "net/url"

// ValidateUserID rejects identifiers the directory can never contain.
// User IDs are positive integers; anything else is an INVALID_ARGUMENT.
func ValidateUserID(id int) error {
	if id <= 0 {
		return New(ErrCodeInvalidArgument, "user id must be greater than zero, got %d", id)
	}
	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL without a query
// or fragment, suitable as a prefix for directory paths.
func ValidateBaseURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidConfig, "base url cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "invalid base url %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidConfig, "base url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidConfig, "base url %q has no host", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return New(ErrCodeInvalidConfig, "base url %q must not contain a query or fragment", raw)
	}
	return nil
}
