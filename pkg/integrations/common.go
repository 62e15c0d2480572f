package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single index request.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a project or page doesn't exist on the index.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with the given timeout.
// A non-positive timeout uses [DefaultTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// JoinURL joins base and segment with exactly one slash between them and a
// trailing slash after segment, as PEP 503 project URLs require.
func JoinURL(base, segment string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Trim(segment, "/") + "/"
}
