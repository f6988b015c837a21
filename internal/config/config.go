// Package config loads the directory client configuration.
//
// Values are resolved from, lowest precedence first: built-in defaults, a
// TOML file with a [user_service] table, and USERDIR_* environment
// variables. Command-line flags are applied on top by the CLI.
//
// Example file:
//
//	[user_service]
//	base_url = "https://reqres.in/api"
//	api_key = "reqres-free-v1"
//	cache_expiration_minutes = 5
//	retry_count = 3
//	retry_base_delay = "1s"
//	request_timeout = "10s"
//	circuit_breaker = false
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	errs "github.com/matzehuels/userdir/pkg/errors"
)

// DefaultFile is read when Load is called without a path and the file exists
// in the working directory.
const DefaultFile = "userdir.toml"

// Environment variables that override file values.
const (
	EnvBaseURL                = "USERDIR_BASE_URL"
	EnvAPIKey                 = "USERDIR_API_KEY"
	EnvCacheExpirationMinutes = "USERDIR_CACHE_EXPIRATION_MINUTES"
	EnvRetryCount             = "USERDIR_RETRY_COUNT"
)

// Config holds the settings of the user directory client.
type Config struct {
	BaseURL                string   `toml:"base_url" validate:"required,url"`
	APIKey                 string   `toml:"api_key" validate:"required"`
	CacheExpirationMinutes int      `toml:"cache_expiration_minutes" validate:"gte=0"`
	RetryCount             int      `toml:"retry_count" validate:"gte=0,lte=10"`
	RetryBaseDelay         Duration `toml:"retry_base_delay"`
	RequestTimeout         Duration `toml:"request_timeout"`
	CircuitBreaker         bool     `toml:"circuit_breaker"`
	BreakerThreshold       uint32   `toml:"breaker_threshold" validate:"required_if=CircuitBreaker true"`
	BreakerCooldown        Duration `toml:"breaker_cooldown"`
}

// Duration is a time.Duration written as a Go duration string ("1s", "250ms")
// in TOML files.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type file struct {
	UserService Config `toml:"user_service"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL:                "https://reqres.in/api",
		APIKey:                 "reqres-free-v1",
		CacheExpirationMinutes: 5,
		RetryCount:             3,
		RetryBaseDelay:         Duration{time.Second},
		RequestTimeout:         Duration{10 * time.Second},
		BreakerThreshold:       5,
		BreakerCooldown:        Duration{30 * time.Second},
	}
}

// Load resolves the configuration from defaults, the TOML file at path and
// the environment, then validates it.
//
// An empty path reads [DefaultFile] if present and otherwise skips the file
// layer. An explicit path that does not exist is an error. All failures are
// INVALID_CONFIG errors.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	f := file{UserService: *c}
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errs.New(errs.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	*c = f.UserService
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.APIKey = v
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{EnvCacheExpirationMinutes, &c.CacheExpirationMinutes},
		{EnvRetryCount, &c.RetryCount},
	}
	for _, e := range ints {
		v, ok := lookup(e.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s must be an integer", e.name)
		}
		*e.dst = n
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints. It returns an INVALID_CONFIG error
// listing every violated rule.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "validate config")
		}
		msgs := make([]string, len(verrs))
		for i, e := range verrs {
			msgs[i] = fmt.Sprintf("%s failed %q", e.Field(), e.Tag())
		}
		return errs.New(errs.ErrCodeInvalidConfig, "invalid config: %s", strings.Join(msgs, "; "))
	}
	if err := errs.ValidateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if c.RetryBaseDelay.Duration < 0 || c.RequestTimeout.Duration < 0 || c.BreakerCooldown.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "durations must not be negative")
	}
	return nil
}

// CacheTTL returns the cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheExpirationMinutes) * time.Minute
}
