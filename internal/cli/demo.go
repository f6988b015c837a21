package cli

import (
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/userdir/pkg/errors"
)

// demoCommand walks through the client's behavior: a paginated fetch, a
// single lookup, then both again to show cache hits.
func (c *CLI) demoCommand() *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Fetch all users and one user, twice, to show caching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errs.ValidateUserID(id); err != nil {
				return err
			}

			s, err := c.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			printInfo(c.Out, "Step 1: Getting all users (paginated)")
			users, stats, err := c.fetchAll(ctx, s.client)
			if err != nil {
				return err
			}
			printUserList(c.Out, users)
			printStats(c.Out, len(users), stats.requests, stats.elapsed)
			printNewline(c.Out)

			printInfo(c.Out, "Step 2: Getting user %d", id)
			user, stats, err := c.fetchUser(ctx, s.client, id)
			if err != nil {
				return err
			}
			printUser(c.Out, user)
			printStats(c.Out, 1, stats.requests, stats.elapsed)
			printNewline(c.Out)

			printInfo(c.Out, "Step 3: Repeating both calls")
			users, stats, err = c.fetchAll(ctx, s.client)
			if err != nil {
				return err
			}
			printDetail(c.Out, "all users")
			printStats(c.Out, len(users), stats.requests, stats.elapsed)
			if _, stats, err = c.fetchUser(ctx, s.client, id); err != nil {
				return err
			}
			printDetail(c.Out, "user %d", id)
			printStats(c.Out, 1, stats.requests, stats.elapsed)
			printNewline(c.Out)

			if c.opts.noCache {
				printWarning(c.Out, "Cache disabled: repeated calls went to the network")
			}
			if retries := c.hooks.retries.Load(); retries > 0 {
				printWarning(c.Out, "Recovered from %d transient failures", retries)
			}
			printSuccess(c.Out, "Demo finished against %s", s.cfg.BaseURL)
			prog.done("Demo complete")
			printNextStep(c.Out, "Try it offline", "userdir mock --fail 408,408")
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 1, "user id to look up")
	return cmd
}
