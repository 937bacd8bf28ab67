package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// BudgetPolicy controls what happens when the geocoding allowance runs out
// partway through a table.
type BudgetPolicy string

const (
	// BudgetStop marks the remaining records skipped and finishes the run.
	// Exported artifacts keep every row; ungeocoded rows simply have no
	// coordinates.
	BudgetStop BudgetPolicy = "stop"

	// BudgetAbort fails the run on the first exhausted lookup, producing
	// no artifacts.
	BudgetAbort BudgetPolicy = "abort"
)

// GeocodeReport tallies lookup outcomes for one pass over the table.
type GeocodeReport struct {
	Resolved int
	Failed   int
	Skipped  int
}

// Unresolved returns how many records finished the pass without coordinates.
func (r GeocodeReport) Unresolved() int { return r.Failed + r.Skipped }

// GeocodeRecords resolves coordinates for each record in place.
//
// A nil geocoder marks every record skipped (geocoding disabled). Individual
// lookup failures degrade gracefully: the record is marked failed and the
// pass continues. ErrBudgetExhausted is handled per policy — BudgetStop
// skips the rest of the table without further lookups, BudgetAbort returns
// the error. Context cancellation skips the rest and returns ctx.Err().
func GeocodeRecords(ctx context.Context, records []AccidentRecord, geocoder Geocoder, policy BudgetPolicy, logger *slog.Logger) (GeocodeReport, error) {
	var report GeocodeReport

	if geocoder == nil {
		skipFrom(records, 0, &report)
		return report, nil
	}

	for i := range records {
		if err := ctx.Err(); err != nil {
			skipFrom(records, i, &report)
			return report, err
		}

		rec := &records[i]
		if rec.Location == "" {
			rec.GeoSource = GeoSourceSkipped
			report.Skipped++
			continue
		}

		result, err := geocoder.Geocode(ctx, rec.Location)
		if errors.Is(err, ErrBudgetExhausted) {
			if policy == BudgetAbort {
				rec.GeoSource = GeoSourceSkipped
				report.Skipped++
				return report, fmt.Errorf("geocode %q: %w", rec.Location, err)
			}
			logger.Warn("geocoding budget exhausted, skipping remaining records",
				"resolved", report.Resolved,
				"remaining", len(records)-i,
			)
			skipFrom(records, i, &report)
			return report, nil
		}
		if err != nil {
			logger.Warn("geocoding failed",
				"record_id", rec.ID,
				"location", rec.Location,
				"error", err,
			)
			rec.GeoSource = GeoSourceFailed
			report.Failed++
			continue
		}
		if !result.Found {
			rec.GeoSource = GeoSourceFailed
			report.Failed++
			continue
		}

		rec.Geo = &Geo{Lat: result.Lat, Lon: result.Lon}
		rec.GeoSource = GeoSourceMapbox
		report.Resolved++
	}

	return report, nil
}

// skipFrom marks records[from:] skipped and counts them in the report.
func skipFrom(records []AccidentRecord, from int, report *GeocodeReport) {
	for i := from; i < len(records); i++ {
		records[i].GeoSource = GeoSourceSkipped
		report.Skipped++
	}
}
