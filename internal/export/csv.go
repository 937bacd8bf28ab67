// Package export writes the enriched accident table to its output
// artifacts: a CSV checkpoint and an interactive bubble-map HTML page.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/crash-archive-etl/internal/domain"
	"github.com/couchcryptid/crash-archive-etl/internal/observability"
)

// csvHeader is the checkpoint column layout. It is part of the tool's
// external contract: cmd/render and cmd/validate read it back.
var csvHeader = []string{"Date", "Local time", "Location", "Airplane model", "Fatalities", "lon", "lat"}

// CSVExporter writes the table to a checkpoint file. It implements
// pipeline.Loader, so the checkpoint is produced alongside the other sinks.
type CSVExporter struct {
	path    string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCSVExporter creates a CSV sink writing to path. Parent directories are
// created on demand.
func NewCSVExporter(path string, metrics *observability.Metrics, logger *slog.Logger) *CSVExporter {
	return &CSVExporter{path: path, metrics: metrics, logger: logger}
}

func (e *CSVExporter) Name() string { return "csv" }

// Load writes all records to the checkpoint file, replacing any previous
// checkpoint at that path.
func (e *CSVExporter) Load(_ context.Context, records []domain.AccidentRecord) error {
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return fmt.Errorf("create checkpoint directory: %w", err)
	}

	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("create checkpoint %s: %w", e.path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, records); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", e.path, err)
	}

	e.metrics.RecordsExported.WithLabelValues("csv").Add(float64(len(records)))
	e.logger.Info("checkpoint written", "path", e.path, "records", len(records))
	return nil
}

// WriteCSV writes the header and one row per record. Missing fatality
// counts and absent coordinates become empty cells.
func WriteCSV(w io.Writer, records []domain.AccidentRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{rec.Date, rec.LocalTime, rec.Location, rec.AirplaneModel, "", "", ""}
		if rec.Fatalities != nil {
			row[4] = strconv.Itoa(*rec.Fatalities)
		}
		if rec.Geo != nil {
			row[5] = strconv.FormatFloat(rec.Geo.Lon, 'f', -1, 64)
			row[6] = strconv.FormatFloat(rec.Geo.Lat, 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV loads a checkpoint back into records so artifacts can be
// re-rendered without re-scraping or re-geocoding. Checkpoint rows carry no
// archive provenance, so Page stays zero and Pos is the row index; rows
// with coordinate cells get GeoSource "mapbox" (that is the only way
// coordinates end up in a checkpoint).
func ReadCSV(r io.Reader) ([]domain.AccidentRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read checkpoint header: %w", err)
	}
	if len(header) != len(csvHeader) || header[0] != csvHeader[0] {
		return nil, fmt.Errorf("unexpected checkpoint header %v", header)
	}

	var records []domain.AccidentRecord
	for pos := 0; ; pos++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read checkpoint row %d: %w", pos+1, err)
		}

		rec := domain.AccidentRecord{
			Date:          row[0],
			LocalTime:     row[1],
			Location:      row[2],
			AirplaneModel: row[3],
			Fatalities:    domain.ParseFatalities(row[4]),
			Pos:           pos,
		}
		if row[5] != "" && row[6] != "" {
			lon, lonErr := strconv.ParseFloat(row[5], 64)
			lat, latErr := strconv.ParseFloat(row[6], 64)
			if lonErr != nil || latErr != nil {
				return nil, fmt.Errorf("checkpoint row %d: invalid coordinates %q,%q", pos+1, row[5], row[6])
			}
			rec.Geo = &domain.Geo{Lat: lat, Lon: lon}
			rec.GeoSource = domain.GeoSourceMapbox
		}
		records = append(records, rec)
	}

	return records, nil
}

// ReadCSVFile is ReadCSV over a file path.
func ReadCSVFile(path string) ([]domain.AccidentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}
