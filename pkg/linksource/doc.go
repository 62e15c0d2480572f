// Package linksource indexes package distribution listings into a queryable
// mapping from project name to versions and their download links.
//
// A listing is any page that exposes distribution files as anchors, most
// commonly a PEP 503 "simple" repository page:
//
//	<a href="requests-2.31.0-py3-none-any.whl#sha256=..." data-requires-python="&gt;=3.7">
//	    requests-2.31.0-py3-none-any.whl
//	</a>
//
// # Resolution
//
// Every anchor becomes a [Link]. Its href is joined onto the page URL as
// text, without re-escaping, and then passed through [CleanLink]. The link's filename is run through
// [ParseFilename], which tries the wheel and sdist filename grammars first and
// falls back to a generic "<name>-<digit...>" split over the filename stem.
// Names are canonicalized with [Canonicalize] and versions are parsed as
// PEP 440 versions. Links that do not resolve to both a name and a valid
// version are dropped from the index; that is never an error.
//
// # Index
//
// The [Index] maps canonical name → version string → links, keeping document
// order at every level. It is built at most once per [Source], on first use,
// and is read-only afterwards:
//
//	page, err := linksource.NewSimpleRepositoryPage("https://pypi.org/simple/requests/", body)
//	if err != nil {
//	    return err
//	}
//	for v := range page.Versions("requests") {
//	    fmt.Println(v)
//	}
//
// # Yanked releases
//
// A release is yanked only if every file backing it is yanked (PEP 592), or
// if it has no files at all. See [Base.Yanked] for how reasons are combined.
//
// # Concurrency
//
// All query methods are safe for concurrent use. The first call builds the
// index behind a compute-once barrier; concurrent first callers block until
// the build completes and then share the same index.
package linksource
