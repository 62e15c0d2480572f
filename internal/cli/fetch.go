package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pylinks/pkg/errors"
	"github.com/matzehuels/pylinks/pkg/integrations"
	"github.com/matzehuels/pylinks/pkg/integrations/simple"
	"github.com/matzehuels/pylinks/pkg/linksource"
)

// maxConcurrentFetches bounds the number of index requests in flight.
const maxConcurrentFetches = 4

// indexFlags selects where listings come from.
type indexFlags struct {
	urls    []string
	page    string
	baseURL string
	timeout time.Duration
}

func (f *indexFlags) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringArrayVar(&f.urls, "index", nil, "simple repository URL (repeatable, default https://pypi.org/simple/)")
	flags.StringVar(&f.page, "page", "", "read links from an HTML file or http(s) URL instead of an index")
	flags.StringVar(&f.baseURL, "base-url", "", "URL that relative links in a local --page resolve against (default file URL of the page)")
	flags.DurationVar(&f.timeout, "timeout", 0, "per-request timeout (default 10s)")
}

// listing is one index's answer to a query. source is nil when the index
// has no page for the project.
type listing struct {
	name   string
	url    string
	source linksource.Source
}

// listings returns the sources to query for project, one per configured
// index in configuration order, or the single --page source.
func (c *CLI) listings(ctx context.Context, project string) ([]listing, error) {
	if project != "" {
		if err := errors.ValidateProjectName(project); err != nil {
			return nil, err
		}
	}
	if c.index.page != "" && !isRemote(c.index.page) {
		l, err := c.localListing(ctx)
		if err != nil {
			return nil, err
		}
		return []listing{l}, nil
	}
	if c.index.page == "" && project == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a project name is required unless --page is given")
	}

	s, err := c.settings()
	if err != nil {
		return nil, err
	}
	if c.index.page != "" {
		l, err := c.remoteListing(ctx, s)
		if err != nil {
			return nil, err
		}
		return []listing{l}, nil
	}
	return c.fetchProject(ctx, s, project)
}

func isRemote(page string) bool {
	return strings.HasPrefix(page, "http://") || strings.HasPrefix(page, "https://")
}

func (c *CLI) httpClient(s settings) *integrations.Client {
	return integrations.NewClient(
		integrations.NewHTTPClient(s.timeout),
		c.retry,
		map[string]string{"User-Agent": s.userAgent},
	)
}

// remoteListing fetches --page over HTTP. Relative links resolve against
// the URL the page was finally served from.
func (c *CLI) remoteListing(ctx context.Context, s settings) (listing, error) {
	if c.index.baseURL != "" {
		return listing{}, errors.New(errors.ErrCodeInvalidInput, "--base-url only applies to a local --page")
	}
	if err := errors.ValidateIndexURL(c.index.page); err != nil {
		return listing{}, err
	}
	logger := loggerFromContext(ctx)
	client := simple.NewClient(c.index.page, c.httpClient(s), logger)

	page, err := client.FetchPage(ctx, c.index.page)
	if err != nil {
		return listing{}, fetchError(ctx, err, "fetch page %s", c.index.page)
	}
	return listing{name: indexName(c.index.page), url: page.URL(), source: page}, nil
}

// localListing parses the file named by --page.
func (c *CLI) localListing(ctx context.Context) (listing, error) {
	logger := loggerFromContext(ctx)

	f, err := os.Open(c.index.page)
	if err != nil {
		if os.IsNotExist(err) {
			return listing{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open page %s", c.index.page)
		}
		return listing{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open page %s", c.index.page)
	}
	defer f.Close()

	base := c.index.baseURL
	if base == "" {
		abs, err := filepath.Abs(c.index.page)
		if err != nil {
			return listing{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve page path %s", c.index.page)
		}
		base = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}

	page, err := linksource.NewHTMLPage(base, f, linksource.WithLogger(logger))
	if err != nil {
		return listing{}, err
	}
	return listing{name: filepath.Base(c.index.page), url: base, source: page}, nil
}

// fetchProject fetches the project page from every index concurrently.
// An index without the project contributes a listing with a nil source;
// any other failure aborts the whole fetch.
func (c *CLI) fetchProject(ctx context.Context, s settings, project string) ([]listing, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	shared := c.httpClient(s)

	spin := newSpinner(ctx, c.status, fmt.Sprintf("Fetching %s from %d index(es)", project, len(s.indexes)))
	spin.start()
	defer spin.stop()

	results := make([]listing, len(s.indexes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, ix := range s.indexes {
		g.Go(func() error {
			client := simple.NewClient(ix.URL, shared, logger.With("index", ix.Name))
			results[i] = listing{name: ix.Name, url: client.ProjectURL(project)}

			page, err := client.FetchProject(gctx, project)
			if stderrors.Is(err, integrations.ErrNotFound) {
				logger.Debug("project not on index", "project", project, "index", ix.Name)
				return nil
			}
			if err != nil {
				return fetchError(gctx, err, "fetch %s from %s", project, ix.Name)
			}
			results[i].source = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	prog.done("Fetched %s from %d index(es)", project, len(s.indexes))
	return results, nil
}

// fetchError codes a failed fetch as TIMEOUT when a request or ctx ran out
// of time, and NETWORK_ERROR otherwise.
func fetchError(ctx context.Context, err error, format string, args ...any) error {
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(stderrors.As(err, &netErr) && netErr.Timeout()) {
		return errors.Wrap(errors.ErrCodeTimeout, err, format, args...)
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, format, args...)
}
