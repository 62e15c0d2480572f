package linksource

import (
	"iter"
	"maps"
	"net/url"
	"slices"
	"strings"
	"sync"

	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/pylinks/pkg/errors"
)

// Source is a listing of distribution files that can be queried by project
// and version. [*Base] implements every query in terms of Links; listing
// formats only need to supply anchors.
type Source interface {
	// URL returns the address the listing was loaded from.
	URL() string
	// Links returns the index, building it on first use.
	Links() *Index
	// Versions yields each distinct version of name once, in index order.
	Versions(name string) iter.Seq[pep440.Version]
	// Packages yields one package per resolvable link in the index.
	Packages() iter.Seq[Package]
	// LinksForVersion returns the links backing a release.
	LinksForVersion(name string, v pep440.Version) []Link
	// Yanked returns the yank status of a release.
	Yanked(name string, v pep440.Version) Yank
}

// Option configures a [Base].
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger used for skipped-link diagnostics.
// A nil logger is ignored.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Base is a [Source] over an ordered sequence of anchors.
//
// The index is computed the first time any query runs and cached for the
// lifetime of the Base. The anchor sequence is consumed exactly once and
// released afterwards.
type Base struct {
	url    string
	logger *log.Logger
	links  func() *Index
}

// NewSource creates a source whose links come from anchors, with relative
// hrefs resolved against rawURL.
func NewSource(rawURL string, anchors iter.Seq[Anchor], opts ...Option) (*Base, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "parse index url %q", rawURL)
	}

	o := options{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Base{url: rawURL, logger: o.logger}
	b.links = sync.OnceValue(func() *Index {
		idx := BuildIndex(base, anchors, b.logger)
		anchors = nil
		return idx
	})
	return b, nil
}

// URL returns the address the source was loaded from.
func (b *Base) URL() string { return b.url }

// Links returns the index, building it on the first call.
func (b *Base) Links() *Index { return b.links() }

// Versions yields every distinct version of name, in the order first seen.
// Versions are distinct under PEP 440 equality, so "1.0" and "1.0.0" are
// yielded once, as whichever appears first. Each link is re-resolved, so
// only versions that still parse are yielded.
// The sequence is empty if name is not in the index.
func (b *Base) Versions(name string) iter.Seq[pep440.Version] {
	return func(yield func(pep440.Version) bool) {
		idx := b.Links()
		name := Canonicalize(name)
		var seen []pep440.Version
		for _, key := range idx.VersionKeys(name) {
			for _, link := range idx.Links(name, key) {
				pkg, ok := b.resolve(link)
				if !ok {
					continue
				}
				if slices.ContainsFunc(seen, pkg.Version.Equal) {
					continue
				}
				seen = append(seen, pkg.Version)
				if !yield(pkg.Version) {
					return
				}
			}
		}
	}
}

// Packages yields a [Package] for every link in the index that resolves.
// Packages are not deduplicated: a release with three files yields three.
func (b *Base) Packages() iter.Seq[Package] {
	return func(yield func(Package) bool) {
		idx := b.Links()
		for _, name := range idx.names {
			for _, key := range idx.VersionKeys(name) {
				for _, link := range idx.Links(name, key) {
					pkg, ok := b.resolve(link)
					if !ok {
						continue
					}
					if !yield(pkg) {
						return
					}
				}
			}
		}
	}
}

// LinksForVersion returns the links stored for name at version v.
// The result is empty if either is unknown.
func (b *Base) LinksForVersion(name string, v pep440.Version) []Link {
	return b.Links().Links(Canonicalize(name), v.String())
}

// Yanked returns the yank status of a release.
//
// If any file of the release is not yanked, neither is the release. If every
// file is yanked, or there are no files, the release is yanked; the distinct
// reasons are sorted and joined with newlines. A yanked release with no
// reasons at all is [Yanked] without a reason.
func (b *Base) Yanked(name string, v pep440.Version) Yank {
	reasons := make(map[string]struct{})
	for _, link := range b.LinksForVersion(name, v) {
		if !link.IsYanked() {
			return Unyanked()
		}
		if r := link.YankedReason(); r != "" {
			reasons[r] = struct{}{}
		}
	}
	if len(reasons) == 0 {
		return YankedNoReason()
	}
	return YankedBecause(strings.Join(slices.Sorted(maps.Keys(reasons)), "\n"))
}

func (b *Base) resolve(link Link) (Package, bool) {
	name, v, err := ParseFilename(link.Filename())
	if err != nil {
		var verr *InvalidVersionError
		if errors.As(err, &verr) {
			b.logger.Debug("skipping link with invalid version", "url", link.URL(), "version", verr.Version)
		}
		return Package{}, false
	}
	return Package{Name: name, Version: v, SourceURL: link.URL()}, true
}

var _ Source = (*Base)(nil)
