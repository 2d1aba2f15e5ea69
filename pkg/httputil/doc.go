// Package httputil provides retry helpers for repository transfers.
//
// # Overview
//
// The repository client performs exactly one attempt per call. Callers that
// want to retry transient failures (the dependency fetcher, driven by the
// deps.retries setting) wrap the call with [Retry]:
//
//	err := httputil.Retry(ctx, 1+retries, time.Second, func() error {
//	    _, err := client.Download(ctx, c, dir)
//	    return err
//	})
//
// Only errors wrapped with [RetryableError] (connection failures, 5xx
// responses) trigger another attempt. Everything else, including 404 and
// filesystem errors, is returned immediately.
//
// The delay doubles after every failed attempt and waiting honors ctx.
package httputil
