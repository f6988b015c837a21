// Package pkg provides the libraries behind userdir, a resilient client for
// reqres.in style user directories.
//
// # Overview
//
// userdir fetches users from a paginated REST directory and shields callers
// from a flaky network. The pkg directory is organized into these areas:
//
//  1. [integrations/reqres] - The directory client (GetUserByID, GetAllUsers)
//  2. [integrations] - Shared HTTP plumbing (transport, cached requests)
//  3. [cache] - Cache interface, in-memory TTL cache and key schemes
//  4. [httputil] - Retry policy with exponential backoff
//  5. [errors] - Coded errors and input validation
//  6. [observability] - Hooks for cache, HTTP and retry events
//
// # Architecture
//
// The data flow of a single call:
//
//	GetUserByID / GetAllUsers
//	         ↓
//	    [cache] lookup (hit returns immediately)
//	         ↓
//	    [httputil] retry loop (transient errors only)
//	         ↓
//	    [integrations] transport (timeout, optional circuit breaker)
//	         ↓
//	    decode, validate, cache
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/userdir/pkg/integrations/reqres"
//	)
//
//	client, err := reqres.NewClient(reqres.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	users, err := client.GetAllUsers(context.Background())
//
// Errors carry a [errors.Code] such as TIMEOUT or SERVICE_ERROR; use
// errors.Is with a code to branch on them.
//
// # Testing
//
// [integrations/reqres/reqrestest] serves a scriptable fake directory over
// net/http, so clients can be exercised end to end without network access.
//
// [integrations/reqres]: https://pkg.go.dev/github.com/matzehuels/userdir/pkg/integrations/reqres
// [integrations/reqres/reqrestest]: https://pkg.go.dev/github.com/matzehuels/userdir/pkg/integrations/reqres/reqrestest
// [integrations]: https://pkg.go.dev/github.com/matzehuels/userdir/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/matzehuels/userdir/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/userdir/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/userdir/pkg/errors
// [errors.Code]: https://pkg.go.dev/github.com/matzehuels/userdir/pkg/errors#Code
// [observability]: https://pkg.go.dev/github.com/matzehuels/userdir/pkg/observability
package pkg
