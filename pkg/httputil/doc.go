// Package httputil provides retry support for index HTTP clients.
//
// Transient failures (transport errors, 5xx responses) are marked by wrapping
// them in [RetryableError]; [Policy.Do] retries only those, doubling the delay
// between attempts:
//
//	err := httputil.DefaultPolicy.Do(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// Nothing here caches responses: every run fetches index pages afresh.
package httputil
