package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/userdir/pkg/integrations/reqres/reqrestest"
)

const defaultMockAddr = "127.0.0.1:8080"

// mockCommand serves a fake directory so the client can be exercised offline.
func (c *CLI) mockCommand() *cobra.Command {
	var (
		addr    string
		count   int
		perPage int
		apiKey  string
		fail    []int
		latency time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve a local fake user directory",
		Long: `Serve a local fake user directory with the same endpoints as reqres.in.

Statuses passed with --fail answer the first requests in order, which makes
it easy to watch the client retry:

  userdir mock --fail 408,408
  userdir demo --base-url http://127.0.0.1:8080 -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			dir := reqrestest.New(reqrestest.SampleUsers(count),
				reqrestest.WithPerPage(perPage),
				reqrestest.WithAPIKey(apiKey),
			)
			dir.Fail(fail...)

			var handler http.Handler = dir.Handler()
			if latency > 0 {
				handler = withLatency(handler, latency)
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Handler:           c.logRequests(handler),
				ReadHeaderTimeout: 5 * time.Second,
			}

			url := "http://" + ln.Addr().String()
			printSuccess(c.Out, "Serving %d users on %d pages at %s", count, dir.TotalPages(), url)
			printNextStep(c.Out, "Point the client at it", "userdir users --base-url "+url)

			errc := make(chan error, 1)
			go func() { errc <- srv.Serve(ln) }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("Mock directory stopped", "requests", dir.Hits())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", defaultMockAddr, "listen address")
	flags.IntVar(&count, "users", 12, "number of sample users")
	flags.IntVar(&perPage, "per-page", reqrestest.DefaultPerPage, "users per page")
	flags.StringVar(&apiKey, "api-key", "", "require this x-api-key value (empty accepts any)")
	flags.IntSliceVar(&fail, "fail", nil, "statuses for the first requests, e.g. 408,500")
	flags.DurationVar(&latency, "latency", 0, "delay every response, e.g. 15s to trigger client timeouts")
	return cmd
}

// logRequests logs one line per request with status and duration.
func (c *CLI) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		c.Logger.Info(r.Method+" "+r.URL.RequestURI(),
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start).Round(time.Millisecond),
		)
	})
}

// withLatency delays every request by d, or until the client goes away.
func withLatency(next http.Handler, d time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
		}
	})
}
