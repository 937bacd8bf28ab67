// Package pipeline wires the crawl, table build, enrichment, and export
// stages into one batch run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/crash-archive-etl/internal/domain"
	"github.com/couchcryptid/crash-archive-etl/internal/observability"
)

// Extractor produces the raw per-page entries. The archive crawler is the
// production implementation.
type Extractor interface {
	Crawl(ctx context.Context) ([]domain.PageEntries, error)
}

// Loader writes the enriched table to one output sink.
type Loader interface {
	Name() string
	Load(ctx context.Context, records []domain.AccidentRecord) error
}

// Result summarizes one pipeline run.
type Result struct {
	Pages    int
	Records  int
	Geocode  domain.GeocodeReport
	Sinks    []string
	Duration time.Duration
}

// Pipeline orchestrates one crawl → build → enrich → export run.
//
// Stages execute strictly in order; the table passes through the two
// enrichment passes in place and then goes to every loader. Cancellation
// between stages stops the run without an error: a run interrupted by
// SIGINT is incomplete, not broken.
type Pipeline struct {
	extractor Extractor
	geocoder  domain.Geocoder
	policy    domain.BudgetPolicy
	loaders   []Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline. A nil geocoder disables coordinate enrichment;
// every record is then exported without coordinates.
func New(extractor Extractor, geocoder domain.Geocoder, policy domain.BudgetPolicy, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		geocoder:  geocoder,
		policy:    policy,
		loaders:   loaders,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the crawl stage has completed, so /readyz
// flips as soon as the run has real data in hand.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not crawled the archive yet")
	}
	return nil
}

// Run executes the batch. It returns the summary even for interrupted runs,
// so callers can report how far the run got.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var res Result

	pages, err := p.extractor.Crawl(ctx)
	if err != nil {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping during crawl", "reason", context.Cause(ctx))
			return res, nil
		}
		return res, fmt.Errorf("crawl: %w", err)
	}
	p.ready.Store(true)
	res.Pages = len(pages)

	records := domain.BuildTable(pages)
	res.Records = len(records)
	p.logger.Info("table built", "pages", res.Pages, "records", res.Records)

	report, err := domain.GeocodeRecords(ctx, records, p.geocoder, p.policy, p.logger)
	res.Geocode = report
	if err != nil {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping during enrichment", "reason", context.Cause(ctx))
			return res, nil
		}
		return res, fmt.Errorf("geocode: %w", err)
	}
	domain.SplitLocalTimes(records)

	if report.Unresolved() > 0 {
		p.logger.Warn("some records have no coordinates",
			"unresolved", report.Unresolved(),
			"failed", report.Failed,
			"skipped", report.Skipped,
		)
	}

	for _, loader := range p.loaders {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping before export", "reason", context.Cause(ctx), "sink", loader.Name())
			return res, nil
		}
		if err := loader.Load(ctx, records); err != nil {
			return res, fmt.Errorf("export to %s: %w", loader.Name(), err)
		}
		res.Sinks = append(res.Sinks, loader.Name())
	}

	res.Duration = time.Since(start)
	p.logger.Info("pipeline finished",
		"pages", res.Pages,
		"records", res.Records,
		"geocoded", report.Resolved,
		"unresolved", report.Unresolved(),
		"sinks", res.Sinks,
		"duration", res.Duration,
	)
	return res, nil
}
