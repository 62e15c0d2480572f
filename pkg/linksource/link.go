package linksource

import (
	"net/url"
	"path"
	"slices"
	"strings"
)

// SupportedFormats lists the archive extensions that can back a release,
// in the order they are tried.
var SupportedFormats = []string{
	".tar.gz",
	".whl",
	".zip",
	".tar.bz2",
	".tar.xz",
	".tar.Z",
	".tar",
}

// IsSupportedFormat reports whether ext is one of [SupportedFormats].
// The comparison is case-sensitive.
func IsSupportedFormat(ext string) bool {
	return slices.Contains(SupportedFormats, ext)
}

// Link is one distribution file discovered on an index page.
// Links are immutable once constructed.
type Link struct {
	url            string
	requiresPython string
	yank           Yank
}

// NewLink creates a link to url. requiresPython is the raw
// data-requires-python expression, or "" if the page gave none.
func NewLink(url, requiresPython string, yank Yank) Link {
	return Link{url: url, requiresPython: requiresPython, yank: yank}
}

// URL returns the absolute, cleaned URL of the file.
func (l Link) URL() string { return l.url }

// RequiresPython returns the Python version requirement, or "" if absent.
func (l Link) RequiresPython() string { return l.requiresPython }

// Yank returns the file's yank status.
func (l Link) Yank() Yank { return l.yank }

// IsYanked reports whether the file is yanked, with or without a reason.
func (l Link) IsYanked() bool { return l.yank.IsYanked() }

// YankedReason returns the yank reason, or "" if there is none.
func (l Link) YankedReason() string { return l.yank.Reason() }

// Filename returns the percent-decoded last path segment of the URL.
// If the path is empty the host is returned instead. Malformed escapes are
// kept as written.
func (l Link) Filename() string {
	rest := l.url
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	var host string
	if i := strings.Index(rest, "://"); i >= 0 {
		host, rest, _ = strings.Cut(rest[i+3:], "/")
		rest = "/" + rest
	}
	name := path.Base(strings.TrimRight(rest, "/"))
	if name == "." || name == "/" {
		return host
	}
	return unquote(name)
}

// Ext returns the file extension, folding ".tar" into compressed
// extensions ("foo-1.0.tar.gz" has extension ".tar.gz").
func (l Link) Ext() string {
	_, ext := SplitExt(l.Filename())
	return ext
}

// Hash returns the hash algorithm and digest from a "#<algo>=<digest>"
// URL fragment, as published by PEP 503 repositories.
func (l Link) Hash() (name, value string, ok bool) {
	_, fragment, found := strings.Cut(l.url, "#")
	if !found {
		return "", "", false
	}
	name, value, ok = strings.Cut(fragment, "=")
	if !ok || name == "" || value == "" {
		return "", "", false
	}
	return name, value, true
}

// String returns the link URL.
func (l Link) String() string { return l.url }

// SplitExt splits filename into stem and extension. A ".tar" that precedes
// the final extension is treated as part of the extension.
func SplitExt(filename string) (stem, ext string) {
	ext = path.Ext(filename)
	stem = strings.TrimSuffix(filename, ext)
	if strings.HasSuffix(strings.ToLower(stem), ".tar") {
		ext = stem[len(stem)-4:] + ext
		stem = stem[:len(stem)-4]
	}
	return stem, ext
}

// unquote decodes %XX escapes, leaving any '%' that does not start a valid
// escape untouched.
func unquote(s string) string {
	if out, err := url.PathUnescape(s); err == nil {
		return out
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c <= '9':
		return c - '0'
	case c >= 'a':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
