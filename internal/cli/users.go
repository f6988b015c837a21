package cli

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/userdir/pkg/errors"
	"github.com/matzehuels/userdir/pkg/integrations/reqres"
)

// usersCommand creates the command that lists every user.
func (c *CLI) usersCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List all users in the directory",
		Long: `List all users in the directory.

Pages are fetched in order until the last page reported by the server. A
timeout or connection failure on any page restarts the walk from page 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			users, stats, err := c.fetchAll(cmd.Context(), s.client)
			if err != nil {
				return err
			}
			if asJSON {
				return c.writeJSON(users)
			}
			printUserList(c.Out, users)
			printStats(c.Out, len(users), stats.requests, stats.elapsed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print users as JSON")
	return cmd
}

// userCommand creates the command that shows a single user.
func (c *CLI) userCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "user <id>",
		Short: "Show a single user",
		Example: `  userdir user 2
  userdir user 2 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			s, err := c.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			user, stats, err := c.fetchUser(cmd.Context(), s.client, id)
			if err != nil {
				return err
			}
			if asJSON {
				return c.writeJSON(user)
			}
			printUser(c.Out, user)
			printStats(c.Out, 1, stats.requests, stats.elapsed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the user as JSON")
	return cmd
}

// parseUserID converts a command argument to a user id.
func parseUserID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidArgument, err, "user id must be an integer, got %q", arg)
	}
	if err := errs.ValidateUserID(id); err != nil {
		return 0, err
	}
	return id, nil
}

// callStats describes one client call as seen by the CLI.
type callStats struct {
	requests int64
	elapsed  time.Duration
}

func (c *CLI) fetchAll(ctx context.Context, client reqres.UserService) ([]reqres.User, callStats, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	mark := c.hooks.snapshot()

	var users []reqres.User
	err := spin(ctx, c.Err, c.opts.verbose, "Fetching users...", func() error {
		var err error
		users, err = client.GetAllUsers(ctx)
		return err
	})
	stats := callStats{requests: c.hooks.since(mark), elapsed: prog.elapsed()}
	if err != nil {
		return nil, stats, err
	}

	logger.Debug("fetched users", "count", len(users), "requests", stats.requests, "took", stats.elapsed)
	return users, stats, nil
}

func (c *CLI) fetchUser(ctx context.Context, client reqres.UserService, id int) (*reqres.User, callStats, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	mark := c.hooks.snapshot()

	var user *reqres.User
	err := spin(ctx, c.Err, c.opts.verbose, "Fetching user "+strconv.Itoa(id)+"...", func() error {
		var err error
		user, err = client.GetUserByID(ctx, id)
		return err
	})
	stats := callStats{requests: c.hooks.since(mark), elapsed: prog.elapsed()}
	if err != nil {
		return nil, stats, err
	}

	logger.Debug("fetched user", "id", id, "requests", stats.requests, "took", stats.elapsed)
	return user, stats, nil
}

func (c *CLI) writeJSON(v any) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
