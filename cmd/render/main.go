// Command render rebuilds the bubble map from an existing CSV checkpoint,
// so a large crawl can be re-rendered (e.g. with a different bubble scale)
// without re-scraping the archive or spending geocoding budget.
//
// Usage:
//
//	go run ./cmd/render -csv data/accidents.csv -map data/accidents_map.html -scale 1000
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/couchcryptid/crash-archive-etl/internal/export"
	"github.com/couchcryptid/crash-archive-etl/internal/observability"
)

func main() {
	csvPath := flag.String("csv", "data/accidents.csv", "checkpoint to read")
	mapPath := flag.String("map", "data/accidents_map.html", "map file to write")
	scale := flag.Float64("scale", 1000, "bubble radius in meters per fatality")
	logFormat := flag.String("log-format", "text", "log format: text or json")
	flag.Parse()

	logger := observability.NewLogger("info", *logFormat)

	if *scale <= 0 {
		logger.Error("scale must be positive", "scale", *scale)
		os.Exit(1)
	}

	records, err := export.ReadCSVFile(*csvPath)
	if err != nil {
		logger.Error("failed to read checkpoint", "error", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	renderer := export.NewMapRenderer(*mapPath, *scale, metrics, logger)
	if err := renderer.Load(context.Background(), records); err != nil {
		logger.Error("failed to render map", "error", err)
		os.Exit(1)
	}

	geocoded := 0
	for _, rec := range records {
		if rec.Geo != nil {
			geocoded++
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Checkpoint", "Records", "With coordinates", "Map"})
	t.AppendRow(table.Row{*csvPath, len(records), fmt.Sprintf("%d (%d without)", geocoded, len(records)-geocoded), *mapPath})
	t.Render()
}
