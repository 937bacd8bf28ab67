// Command etl runs one batch of the crash-archive pipeline: crawl the
// configured archive page range, build the accident table, enrich it with
// coordinates and split local times, then export the CSV checkpoint, the
// bubble map, and (when enabled) the Kafka topic.
//
// Configuration comes from the environment (a .env file is honored); the
// flags override the page range and output paths for ad-hoc runs:
//
//	go run ./cmd/etl -first-page 1 -last-page 5 -csv data/accidents.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/crash-archive-etl/internal/adapter/archive"
	httpadapter "github.com/couchcryptid/crash-archive-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/crash-archive-etl/internal/adapter/kafka"
	"github.com/couchcryptid/crash-archive-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/crash-archive-etl/internal/config"
	"github.com/couchcryptid/crash-archive-etl/internal/domain"
	"github.com/couchcryptid/crash-archive-etl/internal/export"
	"github.com/couchcryptid/crash-archive-etl/internal/observability"
	"github.com/couchcryptid/crash-archive-etl/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	firstPage := flag.Int("first-page", 0, "override FIRST_PAGE")
	lastPage := flag.Int("last-page", 0, "override LAST_PAGE")
	csvPath := flag.String("csv", "", "override CSV_PATH")
	mapPath := flag.String("map", "", "override MAP_PATH")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyFlags(cfg, *firstPage, *lastPage, *csvPath, *mapPath)
	if cfg.LastPage < cfg.FirstPage {
		slog.Error("invalid page range", "first_page", cfg.FirstPage, "last_page", cfg.LastPage)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Geocoder chain, outermost first: cache → daily budget → Mapbox API.
	// Cache hits never spend budget. Feature-flagged via MAPBOX_ENABLED /
	// MAPBOX_TOKEN; without it every record is exported uncoordinated.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		budgeted := mapbox.NewBudgetedGeocoder(client, cfg.GeocodeDailyBudget, clockwork.NewRealClock(), metrics)
		geocoder = mapbox.NewCachedGeocoder(budgeted, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled",
			"daily_budget", cfg.GeocodeDailyBudget,
			"budget_policy", cfg.GeocodeBudgetPolicy,
			"cache_size", cfg.MapboxCacheSize,
			"timeout", cfg.MapboxTimeout,
		)
	} else {
		logger.Info("mapbox geocoding disabled, records will not carry coordinates")
	}

	archiveClient := archive.NewClient(cfg.ArchiveBaseURL, cfg.FetchTimeout, cfg.UserAgent, metrics, logger)
	crawler := archive.NewCrawler(archiveClient, cfg.FirstPage, cfg.LastPage, cfg.FetchDelay, metrics, logger)

	loaders := []pipeline.Loader{
		export.NewCSVExporter(cfg.CSVPath, metrics, logger),
		export.NewMapRenderer(cfg.MapPath, cfg.MapScaleMeters, metrics, logger),
	}
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, metrics, logger)
		loaders = append(loaders, kafkaWriter)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(crawler, geocoder, domain.BudgetPolicy(cfg.GeocodeBudgetPolicy), loaders, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Health/metrics server runs for the duration of the batch.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	result, runErr := p.Run(ctx)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("pipeline run failed", "error", runErr)
		os.Exit(1)
	}

	printSummary(os.Stdout, result)
}

func applyFlags(cfg *config.Config, firstPage, lastPage int, csvPath, mapPath string) {
	if firstPage > 0 {
		cfg.FirstPage = firstPage
	}
	if lastPage > 0 {
		cfg.LastPage = lastPage
	}
	if csvPath != "" {
		cfg.CSVPath = csvPath
	}
	if mapPath != "" {
		cfg.MapPath = mapPath
	}
}

func printSummary(w *os.File, res pipeline.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Pages", "Records", "Geocoded", "Failed", "Skipped", "Sinks", "Duration"})
	t.AppendRow(table.Row{
		res.Pages,
		res.Records,
		res.Geocode.Resolved,
		res.Geocode.Failed,
		res.Geocode.Skipped,
		fmt.Sprintf("%v", res.Sinks),
		res.Duration.Round(time.Millisecond),
	})
	if unresolved := res.Geocode.Unresolved(); unresolved > 0 {
		t.AppendFooter(table.Row{"", "", "", "", "", "unresolved", strconv.Itoa(unresolved)})
	}
	t.Render()
}
