// Package pkg provides the libraries behind pylinks.
//
// # Overview
//
// Pylinks reads the HTML link listings published by Python package indexes
// and answers questions about them: which versions of a project exist, which
// files back a release, and whether a release is yanked. The pkg directory
// is organized as follows:
//
//  1. [linksource] - Link extraction, filename parsing and release queries
//  2. [integrations] - HTTP clients for PEP 503 simple repositories
//  3. [httputil] - Retry policies for index requests
//  4. [observability] - Hooks for index builds and HTTP traffic
//  5. [errors] - Coded errors and input validation
//  6. [buildinfo] - Version information stamped in at build time
//
// # Architecture
//
//	simple repository (HTTP) or local HTML file
//	         ↓
//	    [integrations/simple] (fetch the project page)
//	         ↓
//	    [linksource] (anchors → links → name/version index)
//	         ↓
//	    versions, files and yank status per release
//
// # Quick Start
//
//	c := simple.NewClient(simple.DefaultIndexURL, integrations.NewClient(nil, httputil.DefaultPolicy, nil), nil)
//	page, err := c.FetchProject(ctx, "requests")
//	if err != nil {
//	    return err
//	}
//	for v := range page.Versions("requests") {
//	    fmt.Println(v, page.Yanked("requests", v))
//	}
//
// [linksource]: https://pkg.go.dev/github.com/matzehuels/pylinks/pkg/linksource
// [integrations]: https://pkg.go.dev/github.com/matzehuels/pylinks/pkg/integrations
// [integrations/simple]: https://pkg.go.dev/github.com/matzehuels/pylinks/pkg/integrations/simple
// [httputil]: https://pkg.go.dev/github.com/matzehuels/pylinks/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/pylinks/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/pylinks/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pylinks/pkg/buildinfo
package pkg
