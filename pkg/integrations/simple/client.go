// Package simple fetches project pages from PEP 503 "simple" repositories
// and exposes them as link sources.
//
// https://peps.python.org/pep-0503/
package simple

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pylinks/pkg/integrations"
	"github.com/matzehuels/pylinks/pkg/linksource"
)

// DefaultIndexURL is the public PyPI simple index.
const DefaultIndexURL = "https://pypi.org/simple/"

// acceptHTML asks PEP 691 servers for the HTML flavour of the simple API.
const acceptHTML = "application/vnd.pypi.simple.v1+html, text/html;q=0.01"

// Client reads project pages from a single simple repository.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	logger  *log.Logger
}

// NewClient creates a client for the repository rooted at baseURL.
// A nil logger uses log.Default().
func NewClient(baseURL string, c *integrations.Client, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{Client: c, baseURL: baseURL, logger: logger}
}

// ProjectURL returns the page URL for project, using its canonical name.
func (c *Client) ProjectURL(project string) string {
	return integrations.JoinURL(c.baseURL, linksource.Canonicalize(project))
}

// FetchProject retrieves the project page for project.
//
// Returns [integrations.ErrNotFound] (wrapped) if the repository has no such
// project, or [integrations.ErrNetwork] for HTTP failures.
func (c *Client) FetchProject(ctx context.Context, project string) (*linksource.SimpleRepositoryPage, error) {
	pageURL := c.ProjectURL(project)
	c.logger.Debug("fetching project page", "project", project, "url", pageURL)

	page, err := c.Fetch(ctx, pageURL, map[string]string{"Accept": acceptHTML})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s on %s", err, project, c.baseURL)
		}
		return nil, err
	}
	return linksource.NewSimpleRepositoryPage(page.URL, bytes.NewReader(page.Body), linksource.WithLogger(c.logger))
}

// FetchPage retrieves an arbitrary listing page, such as a flat
// "find-links" directory, without the simple-repository URL conventions.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*linksource.HTMLPage, error) {
	page, err := c.Fetch(ctx, pageURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, err
	}
	return linksource.NewHTMLPage(page.URL, bytes.NewReader(page.Body), linksource.WithLogger(c.logger))
}
