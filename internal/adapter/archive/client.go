package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/crash-archive-etl/internal/observability"
)

// Client fetches archive listing pages and parses them into goquery documents.
type Client struct {
	http    *resty.Client
	baseURL string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates an archive page fetcher. The User-Agent identifies the
// scraper to the site operator; timeout bounds each page fetch.
func NewClient(baseURL string, timeout time.Duration, userAgent string, metrics *observability.Metrics, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// PageURL returns the listing URL for a page index. The first page lives at
// the archive root; later pages under /category/archives/page/N/.
func (c *Client) PageURL(page int) string {
	if page <= 1 {
		return c.baseURL
	}
	return fmt.Sprintf("%s/category/archives/page/%d/", c.baseURL, page)
}

// FetchPage retrieves one listing page and parses its HTML. A transport
// error, non-200 status, or unparseable body is a page-level failure
// carrying the page index.
func (c *Client) FetchPage(ctx context.Context, page int) (*goquery.Document, error) {
	url := c.PageURL(page)

	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(url)
	c.metrics.PageFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchErrors.Inc()
		return nil, fmt.Errorf("fetch archive page %d (%s): %w", page, url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.metrics.FetchErrors.Inc()
		return nil, fmt.Errorf("fetch archive page %d (%s): status %d", page, url, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		c.metrics.FetchErrors.Inc()
		return nil, fmt.Errorf("parse archive page %d: %w", page, err)
	}

	c.metrics.PagesFetched.Inc()
	c.logger.Debug("archive page fetched", "page", page, "url", url, "bytes", len(resp.Body()))
	return doc, nil
}
