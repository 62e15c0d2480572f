package linksource

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

var (
	wheelRE = regexp.MustCompile(`^(?P<name>.+?)-(?P<ver>\d.*?)(-(?P<build>\d.*?))?-(?P<pyver>.+?)-(?P<abi>.+?)-(?P<plat>.+?)(\.whl|\.dist-info)$`)
	sdistRE = regexp.MustCompile(`^(?P<name>.+?)-(?P<ver>\d.*?)(\.sdist)?\.(?P<format>zip|tar(\.(gz|bz2|xz|Z))?)$`)

	// versionRE splits a filename stem at the first hyphen followed by a digit.
	// The name group is lazy, so "foo-2-bar-1.0" splits into "foo" and
	// "2-bar-1.0"; the latter then fails version parsing.
	versionRE = regexp.MustCompile(`(?i)^([a-z0-9_\-.]+?)-(\d[a-z0-9_.!+-]*)`)

	separatorRE = regexp.MustCompile(`[-_.]+`)
)

// ErrUnparsableFilename is returned by [ParseFilename] when no name and
// version can be located in a filename.
var ErrUnparsableFilename = errors.New("filename does not contain a name and version")

// InvalidVersionError is returned by [ParseFilename] when a version field was
// found but is not a valid version.
type InvalidVersionError struct {
	Version string // raw version text taken from the filename
	Err     error
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %v", e.Version, e.Err)
}

func (e *InvalidVersionError) Unwrap() error { return e.Err }

// Package is a release resolved from a single link.
type Package struct {
	Name      string         // canonical project name
	Version   pep440.Version // parsed version
	SourceURL string         // URL of the link the package was resolved from
}

// Canonicalize returns the PEP 503 normalized form of a project name:
// lowercase, with runs of '-', '_' and '.' collapsed to a single '-'.
func Canonicalize(name string) string {
	return separatorRE.ReplaceAllString(strings.ToLower(name), "-")
}

// ParseFilename derives the canonical project name and version from a
// distribution filename.
//
// The wheel and sdist grammars are tried first. Otherwise a supported archive
// extension is split off and the stem is split at its first "-<digit>".
// The error is [ErrUnparsableFilename] if no split is found, or an
// [*InvalidVersionError] if the version text does not parse.
func ParseFilename(filename string) (string, pep440.Version, error) {
	name, raw, ok := splitNameVersion(filename)
	if !ok {
		return "", pep440.Version{}, ErrUnparsableFilename
	}
	v, err := pep440.Parse(raw)
	if err != nil {
		return "", pep440.Version{}, &InvalidVersionError{Version: raw, Err: err}
	}
	return Canonicalize(name), v, nil
}

// ParsePackage resolves link into a [Package]. ok is false if the link's
// filename does not carry a valid name and version.
func ParsePackage(link Link) (pkg Package, ok bool) {
	name, v, err := ParseFilename(link.Filename())
	if err != nil {
		return Package{}, false
	}
	return Package{Name: name, Version: v, SourceURL: link.URL()}, true
}

func splitNameVersion(filename string) (name, version string, ok bool) {
	for _, re := range []*regexp.Regexp{wheelRE, sdistRE} {
		if m := re.FindStringSubmatch(filename); m != nil {
			return m[re.SubexpIndex("name")], m[re.SubexpIndex("ver")], true
		}
	}

	stem, ext := SplitExt(filename)
	if !IsSupportedFormat(ext) {
		return "", "", false
	}
	m := versionRE.FindStringSubmatch(stem)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
