package archive

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/crash-archive-etl/internal/domain"
	"github.com/couchcryptid/crash-archive-etl/internal/observability"
)

// Crawler walks an inclusive range of archive page indices, fetching and
// parsing each one in order. It implements pipeline.Extractor.
//
// Fetches are strictly sequential and throttled: the limiter admits one
// request per configured delay, so the crawl never hammers the site no
// matter how wide the page range is.
type Crawler struct {
	client  *Client
	limiter *rate.Limiter
	first   int
	last    int
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCrawler creates a crawler over pages [first, last]. A zero delay
// disables throttling (used by tests against local servers).
func NewCrawler(client *Client, first, last int, delay time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Crawler {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}

	return &Crawler{
		client:  client,
		limiter: limiter,
		first:   first,
		last:    last,
		metrics: metrics,
		logger:  logger,
	}
}

// Crawl fetches and parses every page in the range, preserving page order.
// Any page failure aborts the crawl with an error naming the page; partial
// results are discarded so a crawl either covers the whole range or fails.
func (c *Crawler) Crawl(ctx context.Context) ([]domain.PageEntries, error) {
	pages := make([]domain.PageEntries, 0, c.last-c.first+1)

	for page := c.first; page <= c.last; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		doc, err := c.client.FetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		entries, err := ParsePage(doc, page)
		if err != nil {
			c.metrics.ExtractErrors.Inc()
			return nil, err
		}

		c.metrics.EntriesExtracted.Add(float64(len(entries)))
		c.logger.Info("archive page crawled", "page", page, "entries", len(entries))
		pages = append(pages, domain.PageEntries{Page: page, Entries: entries})
	}

	return pages, nil
}
