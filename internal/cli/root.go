package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/userdir/pkg/buildinfo"
	"github.com/matzehuels/userdir/pkg/httputil"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Logging:
//   - Default: info level
//   - With --verbose (-v): debug level, including cache and HTTP events
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "userdir queries a paginated user directory",
		Long: `userdir is a CLI for a reqres.in style user directory. It lists users,
looks up single users, retries timeouts and connection failures with
exponential backoff, and caches results in memory for the lifetime of the
process.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.opts.verbose {
				c.SetLogLevel(LogDebug)
			}
			c.hooks.install()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.configPath, "config", "", "config file (default ./userdir.toml if present)")
	flags.StringVar(&c.opts.baseURL, "base-url", "", "directory API root, overrides config")
	flags.IntVar(&c.opts.retries, "retries", httputil.DefaultRetries, "retries after the first attempt, overrides config")
	flags.DurationVar(&c.opts.cacheTTL, "cache-ttl", 0, "cache entry lifetime, overrides config (0 disables cache writes)")
	flags.BoolVar(&c.opts.noCache, "no-cache", false, "disable the in-memory cache")
	flags.BoolVarP(&c.opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.usersCommand())
	root.AddCommand(c.userCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.mockCommand())
	root.AddCommand(c.completionCommand())

	return root
}
