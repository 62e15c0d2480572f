package linksource

import (
	"bytes"
	"net/url"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pylinks/pkg/observability"
)

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return u
}

func TestBuildIndex(t *testing.T) {
	anchors := []Anchor{
		{Href: "foo-1.0.tar.gz"},
		{Href: "Bar-2.0-py3-none-any.whl"},
		{Href: "foo-1.0-py3-none-any.whl", RequiresPython: ">=3.8"},
		{Href: "foo-0.9.zip", Yank: YankedBecause("broken")},
		{Href: "not-a-valid-archive.exe"},
		{Href: "foo-2-bar-1.0.tar.gz"},
		{Href: "https://mirror.example.com/bar-2.0.tar.gz"},
	}

	idx := BuildIndex(mustURL(t, "https://example.com/simple/foo/"), slices.Values(anchors), log.New(&bytes.Buffer{}))

	if got := idx.Names(); !slices.Equal(got, []string{"foo", "bar"}) {
		t.Errorf("Names() = %v, want [foo bar]", got)
	}
	if got := idx.VersionKeys("foo"); !slices.Equal(got, []string{"1.0", "0.9"}) {
		t.Errorf("VersionKeys(foo) = %v, want [1.0 0.9]", got)
	}
	if idx.Len() != 5 {
		t.Errorf("Len() = %d, want 5", idx.Len())
	}

	links := idx.Links("foo", "1.0")
	if len(links) != 2 {
		t.Fatalf("Links(foo, 1.0) = %d links, want 2", len(links))
	}
	if links[0].URL() != "https://example.com/simple/foo/foo-1.0.tar.gz" {
		t.Errorf("first link = %q", links[0].URL())
	}
	if links[1].RequiresPython() != ">=3.8" {
		t.Errorf("second link RequiresPython = %q", links[1].RequiresPython())
	}

	bar := idx.Links("bar", "2.0")
	if len(bar) != 2 || bar[1].URL() != "https://mirror.example.com/bar-2.0.tar.gz" {
		t.Errorf("Links(bar, 2.0) = %v", bar)
	}

	if got := idx.Skipped(SkipUnsupportedFormat); got != 1 {
		t.Errorf("Skipped(unsupported) = %d, want 1", got)
	}
	if got := idx.Skipped(SkipInvalidVersion); got != 1 {
		t.Errorf("Skipped(invalid version) = %d, want 1", got)
	}
	if idx.SkippedTotal() != 2 {
		t.Errorf("SkippedTotal() = %d, want 2", idx.SkippedTotal())
	}
}

func TestBuildIndexMissingKeys(t *testing.T) {
	idx := BuildIndex(mustURL(t, "https://example.com/"), slices.Values([]Anchor{{Href: "foo-1.0.zip"}}), nil)

	if idx.Links("nope", "1.0") != nil {
		t.Error("Links(unknown name) should be nil")
	}
	if idx.Links("foo", "9.9") != nil {
		t.Error("Links(unknown version) should be nil")
	}
	if idx.VersionKeys("nope") != nil {
		t.Error("VersionKeys(unknown) should be nil")
	}
}

func TestBuildIndexReturnsCopies(t *testing.T) {
	idx := BuildIndex(mustURL(t, "https://example.com/"), slices.Values([]Anchor{{Href: "foo-1.0.zip"}}), nil)

	links := idx.Links("foo", "1.0")
	links[0] = NewLink("https://evil.example.com/x.zip", "", Unyanked())
	names := idx.Names()
	names[0] = "mutated"

	if idx.Links("foo", "1.0")[0].URL() != "https://example.com/foo-1.0.zip" {
		t.Error("mutating returned links changed the index")
	}
	if idx.Names()[0] != "foo" {
		t.Error("mutating returned names changed the index")
	}
}

func TestBuildIndexLogsInvalidVersion(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	BuildIndex(mustURL(t, "https://example.com/"), slices.Values([]Anchor{{Href: "foo-2-bar-1.0.tar.gz"}}), logger)

	out := buf.String()
	if !strings.Contains(out, "invalid version") {
		t.Errorf("log output missing message: %q", out)
	}
	if !strings.Contains(out, "https://example.com/foo-2-bar-1.0.tar.gz") || !strings.Contains(out, "2-bar-1.0") {
		t.Errorf("log output missing url or version: %q", out)
	}
}

func TestBuildIndexSilentForUnparsable(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	idx := BuildIndex(mustURL(t, "https://example.com/"), slices.Values([]Anchor{
		{Href: "setup.exe"},
		{Href: "noversion.tar.gz"},
	}), logger)

	if buf.Len() != 0 {
		t.Errorf("expected no log output, got %q", buf.String())
	}
	if idx.Len() != 0 || len(idx.Names()) != 0 {
		t.Errorf("index should be empty, got %d links", idx.Len())
	}
	if idx.Skipped(SkipUnparsable) != 1 || idx.Skipped(SkipUnsupportedFormat) != 1 {
		t.Errorf("skip counts = %d unparsable, %d unsupported", idx.Skipped(SkipUnparsable), idx.Skipped(SkipUnsupportedFormat))
	}
}

func TestBuildIndexCleansURLs(t *testing.T) {
	tests := []struct {
		href    string
		name    string
		version string
		want    string
	}{
		{"/files/foo bar/foo-1.0.tar.gz", "foo", "1.0", "https://example.com/files/foo%20bar/foo-1.0.tar.gz"},
		{"/files/foo%20bar/foo-1.1.tar.gz", "foo", "1.1", "https://example.com/files/foo%20bar/foo-1.1.tar.gz"},
		{"foo|x-1.0.zip", "foo|x", "1.0", "https://example.com/simple/foo|x-1.0.zip"},
		{`dist\bar-2.0.zip`, `dist\bar`, "2.0", `https://example.com/simple/dist\bar-2.0.zip`},
		{"baz%zz-2.0.zip", "baz%zz", "2.0", "https://example.com/simple/baz%zz-2.0.zip"},
		{"caf é-3.0.zip", "caf é", "3.0", "https://example.com/simple/caf%20%c3%a9-3.0.zip"},
		{"../packages/./qux-1.0.zip#sha256=ab", "qux", "1.0", "https://example.com/packages/qux-1.0.zip#sha256=ab"},
		{"https://files.example.org/a/b|c-4.0.zip", "b|c", "4.0", "https://files.example.org/a/b|c-4.0.zip"},
		{"//cdn.example.org/d-5.0.zip", "d", "5.0", "https://cdn.example.org/d-5.0.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			idx := BuildIndex(mustURL(t, "https://example.com/simple/"), slices.Values([]Anchor{{Href: tt.href}}), nil)
			if idx.SkippedTotal() != 0 {
				t.Fatalf("link was skipped: %d", idx.SkippedTotal())
			}
			links := idx.Links(tt.name, tt.version)
			if len(links) != 1 {
				t.Fatalf("Links(%q, %q) = %v, names = %v", tt.name, tt.version, links, idx.Names())
			}
			if got := links[0].URL(); got != tt.want {
				t.Errorf("URL = %q, want %q", got, tt.want)
			}
			if got := CleanLink(links[0].URL()); got != links[0].URL() {
				t.Errorf("URL is not clean: %q", got)
			}
		})
	}
}

func TestRemoveDotSegments(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/a/b/c", "/a/b/c"},
		{"/a/./b", "/a/b"},
		{"/a/b/../c", "/a/c"},
		{"/a/b/..", "/a/"},
		{"/a/.", "/a/"},
		{"/../../x", "/x"},
		{"/simple/foo/../../packages/x.whl", "/packages/x.whl"},
	}
	for _, tt := range tests {
		if got := removeDotSegments(tt.in); got != tt.want {
			t.Errorf("removeDotSegments(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildIndexHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	h := &recordingHooks{}
	observability.SetIndexHooks(h)

	BuildIndex(mustURL(t, "https://example.com/"), slices.Values([]Anchor{
		{Href: "foo-1.0.zip"},
		{Href: "setup.exe"},
	}), nil)

	if !slices.Equal(h.reasons, []string{string(SkipUnsupportedFormat)}) {
		t.Errorf("skip reasons = %v", h.reasons)
	}
	if h.builds != 1 || h.links != 1 || h.projects != 1 {
		t.Errorf("builds=%d projects=%d links=%d, want 1 1 1", h.builds, h.projects, h.links)
	}
}

type recordingHooks struct {
	reasons  []string
	builds   int
	projects int
	links    int
}

func (h *recordingHooks) OnLinkSkipped(_ string, reason string) {
	h.reasons = append(h.reasons, reason)
}

func (h *recordingHooks) OnIndexBuilt(_ string, projects, links, _ int, _ time.Duration) {
	h.builds++
	h.projects = projects
	h.links = links
}
