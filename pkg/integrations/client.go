package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/pylinks/pkg/httputil"
	"github.com/matzehuels/pylinks/pkg/observability"
)

// Page is a fetched document together with the URL it was finally served
// from, after redirects. Relative links in Body resolve against URL.
type Page struct {
	URL         string
	ContentType string
	Body        []byte
}

// Client provides shared HTTP functionality for index clients.
// It handles retries and common request headers.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *http.Client
	policy  httputil.Policy
	headers map[string]string
}

// NewClient creates a Client. A nil httpClient uses [NewHTTPClient] with the
// default timeout. Headers are applied to all requests; pass nil for none.
func NewClient(httpClient *http.Client, policy httputil.Policy, headers map[string]string) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	return &Client{
		http:    httpClient,
		policy:  policy,
		headers: headers,
	}
}

// Fetch performs an HTTP GET with retries and returns the whole response.
// Request-specific headers override client defaults for the same key.
func (c *Client) Fetch(ctx context.Context, url string, headers map[string]string) (*Page, error) {
	var page *Page
	err := c.policy.Do(ctx, func() error {
		p, err := c.fetchOnce(ctx, url, headers)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) fetchOnce(ctx context.Context, url string, headers map[string]string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, httputil.Retryable(fmt.Errorf("%w: %w", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: read body: %w", ErrNetwork, err))
	}
	return &Page{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
