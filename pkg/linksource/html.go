package linksource

import (
	"io"
	"iter"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/pylinks/pkg/errors"
)

const (
	attrHref           = "href"
	attrRequiresPython = "data-requires-python"
	attrYanked         = "data-yanked"
)

// HTMLPage is a [Source] backed by an HTML listing of anchors.
type HTMLPage struct {
	*Base
}

// NewHTMLPage parses content and returns a page whose anchors are resolved
// against rawURL. Only the markup is parsed here; links are extracted on the
// first query.
func NewHTMLPage(rawURL string, content io.Reader, opts ...Option) (*HTMLPage, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse html page %s", rawURL)
	}
	b, err := NewSource(rawURL, anchors(doc), opts...)
	if err != nil {
		return nil, err
	}
	return &HTMLPage{Base: b}, nil
}

// SimpleRepositoryPage is a PEP 503 project page. Its URL always ends in a
// slash so that relative file links resolve beneath the project.
type SimpleRepositoryPage struct {
	*HTMLPage
}

// NewSimpleRepositoryPage is like [NewHTMLPage] but appends a trailing slash
// to rawURL when it is missing.
func NewSimpleRepositoryPage(rawURL string, content io.Reader, opts ...Option) (*SimpleRepositoryPage, error) {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	p, err := NewHTMLPage(rawURL, content, opts...)
	if err != nil {
		return nil, err
	}
	return &SimpleRepositoryPage{HTMLPage: p}, nil
}

// anchors yields the <a> elements of doc with a non-empty href, in document
// order.
func anchors(doc *html.Node) iter.Seq[Anchor] {
	return func(yield func(Anchor) bool) {
		for n := range doc.Descendants() {
			if n.Type != html.ElementNode || n.DataAtom != atom.A {
				continue
			}
			a, ok := anchorOf(n)
			if !ok {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}

func anchorOf(n *html.Node) (Anchor, bool) {
	var (
		a      Anchor
		yanked *string
	)
	for _, attr := range n.Attr {
		if attr.Namespace != "" {
			continue
		}
		switch attr.Key {
		case attrHref:
			a.Href = attr.Val
		case attrRequiresPython:
			if attr.Val != "" {
				a.RequiresPython = html.UnescapeString(attr.Val)
			}
		case attrYanked:
			v := attr.Val
			yanked = &v
		}
	}
	if a.Href == "" {
		return Anchor{}, false
	}
	switch {
	case yanked == nil:
		a.Yank = Unyanked()
	case *yanked == "":
		a.Yank = YankedNoReason()
	default:
		a.Yank = YankedBecause(html.UnescapeString(*yanked))
	}
	return a, true
}

var (
	_ Source = (*HTMLPage)(nil)
	_ Source = (*SimpleRepositoryPage)(nil)
)
