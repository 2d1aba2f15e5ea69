// Package integrations provides the HTTP transport shared by repository clients.
//
// # Overview
//
// Repository layouts live in subpackages; this package only knows how to ask
// a URL whether it exists and how to stream its body:
//
//   - [maven]: Maven-layout artifact repositories (Maven Central and mirrors)
//
// # Client Pattern
//
// Layout clients embed [Client] and translate their own identifiers to URLs:
//
//	client := maven.NewClient("https://repo1.maven.org/maven2/")
//	ok := client.Probe(ctx, coord.MustParse("org.slf4j:slf4j-api:2.0.9"))
//
// # Errors
//
// Status codes are mapped once, in this package:
//   - 2xx: success
//   - 404: [ErrNotFound]
//   - 5xx and transport failures: [ErrNetwork] wrapped in a retryable error
//     (see [httputil.Retry])
//   - anything else: [ErrNetwork]
//
// The client never retries on its own. Callers that want retries wrap the call
// in [httputil.Retry].
//
// [maven]: github.com/matzehuels/jsb/pkg/integrations/maven
// [httputil.Retry]: github.com/matzehuels/jsb/pkg/httputil.Retry
package integrations
