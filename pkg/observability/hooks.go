// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about index builds
// and HTTP calls without this module depending on any particular backend.
//
// # Architecture
//
//   - Hook interfaces per event category
//   - No-op default implementations
//   - A global registry that main sets up once
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetIndexHooks(&myIndexHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Index().OnLinkSkipped(url, "invalid_version")
//	observability.HTTP().OnRequest(ctx, "GET", host, path)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Index Hooks
// =============================================================================

// IndexHooks receives events from link index construction.
// Index builds are pure in-memory work, so these hooks take no context.
type IndexHooks interface {
	// OnLinkSkipped records a link candidate that was left out of an index.
	OnLinkSkipped(url, reason string)

	// OnIndexBuilt records a completed index build for the page at url.
	OnIndexBuilt(url string, projects, links, skipped int, duration time.Duration)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopIndexHooks is a no-op implementation of IndexHooks.
type NoopIndexHooks struct{}

func (NoopIndexHooks) OnLinkSkipped(string, string)                      {}
func (NoopIndexHooks) OnIndexBuilt(string, int, int, int, time.Duration) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	indexHooks IndexHooks = NoopIndexHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetIndexHooks registers custom index hooks.
// This should be called once at application startup before any index is built.
func SetIndexHooks(h IndexHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		indexHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Index returns the registered index hooks.
func Index() IndexHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return indexHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	indexHooks = NoopIndexHooks{}
	httpHooks = NoopHTTPHooks{}
}
