// Package maven provides an HTTP client for Maven-layout artifact repositories.
//
// # Overview
//
// A Maven repository stores each library archive at a path derived from its
// coordinate:
//
//	{base}/{group with dots as slashes}/{artifact}/{version}/{artifact}-{version}.jar
//
// The client only needs that layout. It does not read POMs, metadata files or
// checksums, and it never resolves transitive dependencies.
//
// # Usage
//
//	client := maven.NewClient("https://repo1.maven.org/maven2/")
//
//	c := coord.MustParse("org.apache.commons:commons-lang3:3.14.0")
//	if client.Probe(ctx, c) {
//	    path, err := client.Download(ctx, c, "./lib")
//	    ...
//	}
//
// # Probing
//
// [Client.Probe] answers with a single HEAD request (GET if the server refuses
// HEAD) and treats any failure as "does not exist". [Client.ProbeErr] keeps
// the error for callers that want to tell a missing artifact from an
// unreachable repository.
//
// # Caching
//
// With [WithCache], confirmed artifacts are remembered for the configured
// TTL so repeated checks skip the network. Missing artifacts are always asked
// again.
//
// # Downloads
//
// [Client.Download] streams in fixed 32 KiB chunks to a temporary ".part"
// file and renames it into place, so an interrupted download is never
// mistaken for a cached archive. The client never retries; wrap the call in
// httputil.Retry to do so.
package maven
