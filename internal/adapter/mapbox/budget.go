package mapbox

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/crash-archive-etl/internal/domain"
	"github.com/couchcryptid/crash-archive-etl/internal/observability"
)

// BudgetedGeocoder wraps a Geocoder with an explicit daily request
// allowance. Mapbox's free tier is bounded per day, and a wide crawl can
// burn through it; the budget makes that limit a counted resource instead
// of a convention. Once the allowance is spent every lookup returns
// domain.ErrBudgetExhausted until the window rolls over at UTC midnight.
//
// The budget sits between the cache and the API client: cache hits never
// spend allowance, and a spent unit means a request actually went out
// (failed lookups count too, since Mapbox bills the attempt).
type BudgetedGeocoder struct {
	inner   domain.Geocoder
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu        sync.Mutex
	budget    int
	remaining int
	day       time.Time // UTC midnight opening the current window
}

// NewBudgetedGeocoder creates a budget decorator with the given daily
// allowance. The clock is injected so tests can roll the day over.
func NewBudgetedGeocoder(inner domain.Geocoder, dailyBudget int, clock clockwork.Clock, metrics *observability.Metrics) *BudgetedGeocoder {
	b := &BudgetedGeocoder{
		inner:     inner,
		clock:     clock,
		metrics:   metrics,
		budget:    dailyBudget,
		remaining: dailyBudget,
		day:       clock.Now().UTC().Truncate(24 * time.Hour),
	}
	metrics.GeocodeBudgetRemaining.Set(float64(dailyBudget))
	return b
}

func (b *BudgetedGeocoder) Geocode(ctx context.Context, location string) (domain.GeocodingResult, error) {
	if err := b.spend(); err != nil {
		return domain.GeocodingResult{}, err
	}
	return b.inner.Geocode(ctx, location)
}

// Remaining reports how many lookups are left in the current UTC day.
func (b *BudgetedGeocoder) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return b.remaining
}

func (b *BudgetedGeocoder) spend() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rollover()
	if b.remaining <= 0 {
		return domain.ErrBudgetExhausted
	}
	b.remaining--
	b.metrics.GeocodeBudgetRemaining.Set(float64(b.remaining))
	return nil
}

// rollover resets the allowance when the UTC day has advanced. Callers must
// hold b.mu.
func (b *BudgetedGeocoder) rollover() {
	today := b.clock.Now().UTC().Truncate(24 * time.Hour)
	if today.After(b.day) {
		b.day = today
		b.remaining = b.budget
		b.metrics.GeocodeBudgetRemaining.Set(float64(b.remaining))
	}
}
