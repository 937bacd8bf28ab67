package domain

import (
	"context"
	"errors"
)

// ErrBudgetExhausted is returned by budget-aware geocoders once the daily
// request allowance is spent. Callers decide via BudgetPolicy whether that
// stops the pass or aborts the run.
var ErrBudgetExhausted = errors.New("geocoding budget exhausted")

// GeocodingResult carries the best match returned by a geocoding provider.
// Found distinguishes "no match" from a legitimate (0, 0) coordinate.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	Found            bool
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder resolves a free-form location name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (GeocodingResult, error)
}
