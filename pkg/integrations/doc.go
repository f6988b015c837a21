// Package integrations provides the HTTP plumbing shared by directory API
// clients.
//
// # Overview
//
// The package has two layers:
//
//   - [Transport]: the network boundary. [HTTPTransport] issues GET
//     requests through net/http, tags them with a request ID and maps
//     failures onto the error taxonomy in pkg/errors.
//   - [Client]: composes a Transport with a cache and a retry policy.
//     [Client.Do] classifies status codes and decodes JSON;
//     [Client.Cached] implements read-through caching around a retried fetch.
//
// API-specific clients live in subpackages and embed [Client]:
//
//   - [reqres]: the paginated reqres.in user directory
//
// # Status Classification
//
//	2xx          success
//	408          TIMEOUT (transient, retried)
//	other        SERVICE_ERROR (permanent)
//	no response  TIMEOUT, TRANSPORT_FAILURE or CANCELLED from the transport
//
// # Adding a New API
//
//  1. Create a subpackage: pkg/integrations/<api>/
//  2. Define response envelopes matching the API schema
//  3. Embed [*Client] created with [NewClient]
//  4. Wrap each fetch in [Client.Cached] with a deterministic key
//
// [reqres]: github.com/matzehuels/userdir/pkg/integrations/reqres
package integrations
