package mapbox

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crash-archive-etl/internal/domain"
)

// countingGeocoder records how many lookups reached it.
type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (g *countingGeocoder) Geocode(_ context.Context, _ string) (domain.GeocodingResult, error) {
	g.calls++
	return g.result, g.err
}

func TestBudgetedGeocoder_SpendsAndExhausts(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC))
	inner := &countingGeocoder{result: domain.GeocodingResult{Lat: 1, Lon: 2, Found: true}}
	b := NewBudgetedGeocoder(inner, 2, clock, testMetrics())

	assert.Equal(t, 2, b.Remaining())

	_, err := b.Geocode(context.Background(), "Moyo")
	require.NoError(t, err)
	_, err = b.Geocode(context.Background(), "Nairobi")
	require.NoError(t, err)
	assert.Equal(t, 0, b.Remaining())
	assert.Equal(t, 2, inner.calls)

	// Third lookup is refused without reaching the API.
	_, err = b.Geocode(context.Background(), "Rome")
	require.ErrorIs(t, err, domain.ErrBudgetExhausted)
	assert.Equal(t, 2, inner.calls)
}

func TestBudgetedGeocoder_FailedLookupsSpendBudget(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC))
	inner := &countingGeocoder{err: assert.AnError}
	b := NewBudgetedGeocoder(inner, 1, clock, testMetrics())

	_, err := b.Geocode(context.Background(), "Moyo")
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, b.Remaining(), "the request went out, so the unit is spent")
}

func TestBudgetedGeocoder_ResetsAtUTCMidnight(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 20, 23, 30, 0, 0, time.UTC))
	inner := &countingGeocoder{result: domain.GeocodingResult{Found: true}}
	b := NewBudgetedGeocoder(inner, 1, clock, testMetrics())

	_, err := b.Geocode(context.Background(), "Moyo")
	require.NoError(t, err)
	_, err = b.Geocode(context.Background(), "Nairobi")
	require.ErrorIs(t, err, domain.ErrBudgetExhausted)

	// Half an hour later the UTC day rolls over and the allowance refills.
	clock.Advance(time.Hour)
	assert.Equal(t, 1, b.Remaining())

	_, err = b.Geocode(context.Background(), "Nairobi")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
