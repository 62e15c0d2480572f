// Package integrations provides the shared HTTP client used to fetch
// package index pages.
//
// # Overview
//
// Index-specific clients live in subpackages:
//
//   - [simple]: PEP 503 "simple" repositories such as https://pypi.org/simple/
//
// # Client Pattern
//
//	c := simple.NewClient("https://pypi.org/simple/", integrations.NewClient(nil, httputil.DefaultPolicy, nil), logger)
//	page, err := c.FetchProject(ctx, "requests")
//
// [Client] handles request headers, status mapping and retries. Responses are
// never cached between runs.
//
// # Errors
//
//   - [ErrNotFound] for 404 responses
//   - [ErrNetwork] for transport failures and other non-2xx statuses;
//     transport failures and 5xx responses are retried
package integrations
