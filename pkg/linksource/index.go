package linksource

import (
	"errors"
	"iter"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pylinks/pkg/observability"
)

// SkipReason explains why a link candidate was left out of an index.
type SkipReason string

const (
	SkipUnsupportedFormat SkipReason = "unsupported_format"
	SkipUnparsable        SkipReason = "unparsable_filename"
	SkipInvalidVersion    SkipReason = "invalid_version"
)

// Anchor is a raw hyperlink record produced by markup traversal.
type Anchor struct {
	Href           string // target URL, possibly relative
	RequiresPython string // entity-decoded data-requires-python, "" if absent
	Yank           Yank   // decoded from data-yanked
}

// Index maps canonical project names to version strings to links.
// Names, versions and links all keep the order in which they were first seen.
//
// An Index is read-only once built and safe for concurrent readers.
type Index struct {
	names    []string
	projects map[string]*project
	links    int
	skipped  map[SkipReason]int
}

type project struct {
	versions []string
	files    map[string][]Link
}

func newIndex() *Index {
	return &Index{
		projects: make(map[string]*project),
		skipped:  make(map[SkipReason]int),
	}
}

// Names returns the canonical project names in the index.
func (idx *Index) Names() []string {
	return slices.Clone(idx.names)
}

// VersionKeys returns the version strings recorded for name.
// name must already be canonical.
func (idx *Index) VersionKeys(name string) []string {
	p, ok := idx.projects[name]
	if !ok {
		return nil
	}
	return slices.Clone(p.versions)
}

// Links returns a copy of the links stored under name and version.
// The result is nil if either key is absent.
func (idx *Index) Links(name, version string) []Link {
	p, ok := idx.projects[name]
	if !ok {
		return nil
	}
	return slices.Clone(p.files[version])
}

// Len returns the number of links in the index.
func (idx *Index) Len() int { return idx.links }

// Skipped returns how many candidates were dropped for reason.
func (idx *Index) Skipped(reason SkipReason) int { return idx.skipped[reason] }

// SkippedTotal returns how many candidates were dropped for any reason.
func (idx *Index) SkippedTotal() int {
	n := 0
	for _, c := range idx.skipped {
		n += c
	}
	return n
}

func (idx *Index) add(name, version string, link Link) {
	p, ok := idx.projects[name]
	if !ok {
		p = &project{files: make(map[string][]Link)}
		idx.projects[name] = p
		idx.names = append(idx.names, name)
	}
	if _, ok := p.files[version]; !ok {
		p.versions = append(p.versions, version)
	}
	p.files[version] = append(p.files[version], link)
	idx.links++
}

// BuildIndex resolves anchors against base and groups the links that carry a
// valid name and version. Candidates that do not resolve are counted as
// skipped and otherwise ignored. Invalid versions are logged at debug level.
//
// A nil logger uses log.Default().
func BuildIndex(base *url.URL, anchors iter.Seq[Anchor], logger *log.Logger) *Index {
	if logger == nil {
		logger = log.Default()
	}
	start := time.Now()
	idx := newIndex()
	hooks := observability.Index()

	skip := func(target string, reason SkipReason) {
		idx.skipped[reason]++
		hooks.OnLinkSkipped(target, string(reason))
	}

	for a := range anchors {
		target := resolve(base, a.Href)
		link := NewLink(target, a.RequiresPython, a.Yank)
		if !IsSupportedFormat(link.Ext()) {
			skip(target, SkipUnsupportedFormat)
			continue
		}

		name, v, err := ParseFilename(link.Filename())
		if err != nil {
			var verr *InvalidVersionError
			if errors.As(err, &verr) {
				logger.Debug("skipping link with invalid version", "url", target, "version", verr.Version)
				skip(target, SkipInvalidVersion)
			} else {
				skip(target, SkipUnparsable)
			}
			continue
		}
		idx.add(name, v.String(), link)
	}

	hooks.OnIndexBuilt(base.String(), len(idx.names), idx.links, idx.SkippedTotal(), time.Since(start))
	return idx
}

// resolve joins href onto base the way a browser would, without
// re-escaping either side, and cleans the result. Only the dot segments of
// the joined path are normalized; everything else keeps its original text.
func resolve(base *url.URL, href string) string {
	if hasScheme(href) {
		return CleanLink(href)
	}
	if strings.HasPrefix(href, "//") && base.Scheme != "" {
		return CleanLink(base.Scheme + ":" + href)
	}

	var origin string
	if base.Scheme != "" {
		origin = base.Scheme + ":"
	}
	if base.Host != "" || base.Scheme == "file" {
		origin += "//" + base.Host
	}
	basePath := base.EscapedPath()
	if basePath == "" {
		basePath = "/"
	}

	ref, suffix := href, ""
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		ref, suffix = href[:i], href[i:]
	}

	var joined string
	switch {
	case ref == "" && strings.HasPrefix(suffix, "#"):
		joined = basePath + queryOf(base) + suffix
	case ref == "":
		joined = basePath + suffix
	case strings.HasPrefix(ref, "/"):
		joined = removeDotSegments(ref) + suffix
	default:
		dir := basePath[:strings.LastIndex(basePath, "/")+1]
		joined = removeDotSegments(dir+ref) + suffix
	}
	return CleanLink(origin + joined)
}

var schemeRE = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

func hasScheme(href string) bool {
	return schemeRE.MatchString(href)
}

func queryOf(u *url.URL) string {
	if u.RawQuery == "" && !u.ForceQuery {
		return ""
	}
	return "?" + u.RawQuery
}

// removeDotSegments drops "." and ".." segments from an absolute path.
// ".." never climbs above the root.
func removeDotSegments(p string) string {
	segs := strings.Split(p, "/")
	out := make([]string, 0, len(segs))
	for i, seg := range segs {
		last := i == len(segs)-1
		switch seg {
		case ".":
			if last {
				out = append(out, "")
			}
		case "..":
			if len(out) > 1 {
				out = out[:len(out)-1]
			}
			if last {
				out = append(out, "")
			}
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/")
}
