// Package reqres provides a resilient client for the reqres.in user
// directory API.
//
// # Overview
//
// The directory exposes two endpoints:
//
//	GET {baseURL}/users/{id}       {"data": {user}}
//	GET {baseURL}/users?page={n}   {"page": n, "total_pages": t, "data": [users]}
//
// [Client] wraps both behind [UserService], adding read-through caching and
// retry with exponential backoff.
//
// # Usage
//
//	client, err := reqres.NewClient(reqres.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	users, err := client.GetAllUsers(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	user, err := client.GetUserByID(ctx, 2)
//
// # Caching
//
// Results are cached under "all_users" and "user_{id}" for [Options.CacheTTL].
// A hit never touches the network. Expired entries count as misses.
//
// # Retries
//
// Timeouts and connection failures are retried up to [Options.Retries] times,
// waiting BackoffUnit * 2^attempt between attempts. Any other failure, such as
// a 404, a 500 or a malformed body, is returned after a single attempt.
// [Client.GetAllUsers] retries the entire page walk, starting again at page 1.
//
// # Testing
//
// Package [reqrestest] serves an in-process fake directory with scripted
// failures.
//
// [reqrestest]: github.com/matzehuels/userdir/pkg/integrations/reqres/reqrestest
package reqres
