package cli

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/userdir/internal/config"
	"github.com/matzehuels/userdir/pkg/cache"
	errs "github.com/matzehuels/userdir/pkg/errors"
	"github.com/matzehuels/userdir/pkg/integrations"
	"github.com/matzehuels/userdir/pkg/integrations/reqres"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for the root command and display.
const appName = "userdir"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer // command results
	Err    io.Writer // spinner and progress output

	opts  globalOptions
	hooks *logHooks
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	baseURL    string
	retries    int
	cacheTTL   time.Duration
	noCache    bool
	verbose    bool
}

// New creates a new CLI instance that logs to w at the given level.
// Command results go to stdout.
func New(w io.Writer, level log.Level) *CLI {
	logger := newLogger(w, level)
	return &CLI{
		Logger: logger,
		Out:    os.Stdout,
		Err:    w,
		hooks:  newLogHooks(logger),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command results to w.
func (c *CLI) SetOutput(w io.Writer) {
	c.Out = w
}

// =============================================================================
// Session Factory
// =============================================================================

// session bundles the resolved configuration with a ready directory client.
type session struct {
	cfg    *config.Config
	client *reqres.Client
	cache  cache.Cache
}

// Close releases the session's cache.
func (s *session) Close() error {
	return s.cache.Close()
}

// loadConfig resolves configuration and applies flags the user set
// explicitly on top of it.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = c.opts.baseURL
	}
	if flags.Changed("retries") {
		cfg.RetryCount = c.opts.retries
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// cacheTTL returns the --cache-ttl override if set, else the configured TTL.
func (c *CLI) cacheTTL(cmd *cobra.Command, cfg *config.Config) time.Duration {
	if cmd.Flags().Changed("cache-ttl") {
		return c.opts.cacheTTL
	}
	return cfg.CacheTTL()
}

// newSession builds a directory client from configuration and flags.
func (c *CLI) newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	transportOpts := []integrations.TransportOption{
		integrations.WithTimeout(cfg.RequestTimeout.Duration),
	}
	if cfg.CircuitBreaker {
		transportOpts = append(transportOpts,
			integrations.WithCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown.Duration))
	}

	var store cache.Cache = cache.NewMemoryCache()
	if c.opts.noCache {
		store = cache.NewNullCache()
	}

	ttl := c.cacheTTL(cmd, cfg)
	client, err := reqres.NewClient(reqres.Options{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		CacheTTL:    ttl,
		Retries:     cfg.RetryCount,
		BackoffUnit: cfg.RetryBaseDelay.Duration,
		Transport:   integrations.NewHTTPTransport(transportOpts...),
		Cache:       store,
		Keyer:       cache.NewScopedKeyer(nil, cache.Namespace(cfg.BaseURL)),
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	loggerFromContext(cmd.Context()).Debug("client ready",
		"base_url", cfg.BaseURL,
		"retries", cfg.RetryCount,
		"backoff", cfg.RetryBaseDelay.Duration,
		"cache_ttl", ttl,
		"no_cache", c.opts.noCache,
		"breaker", cfg.CircuitBreaker,
	)
	return &session{cfg: cfg, client: client, cache: store}, nil
}

// PrintError reports a failed command on the diagnostic writer.
func (c *CLI) PrintError(err error) {
	printError(c.Err, "%s", errs.UserMessage(err))
	var se *errs.StatusError
	switch {
	case errors.As(err, &se):
		printDetail(c.Err, "%s", se)
	case errs.GetCode(err) == errs.ErrCodeInvalidConfig:
		printDetail(c.Err, "check --config, USERDIR_* variables and flags")
	}
}
