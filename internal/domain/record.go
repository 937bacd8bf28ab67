package domain

import "time"

// RawEntry holds the field texts extracted from one archive entry, before
// any parsing. Model and Fatalities may be empty when the entry lacks the
// corresponding node; Date and Location are always present.
type RawEntry struct {
	Date       string
	Location   string
	Model      string
	Fatalities string
}

// PageEntries groups the entries extracted from one archive page.
type PageEntries struct {
	Page    int
	Entries []RawEntry
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoSource values record how (or whether) a record's coordinates were obtained.
const (
	GeoSourceMapbox  = "mapbox"  // resolved via the Mapbox API or its cache
	GeoSourceFailed  = "failed"  // lookup attempted but errored or found no match
	GeoSourceSkipped = "skipped" // lookup never attempted: disabled, empty location, or budget spent
)

// AccidentRecord is one row of the flattened accident table.
//
// Date initially holds the full archive date cell; the date-splitting pass
// moves the local-time portion into LocalTime. Page and Pos keep the row's
// provenance within the archive (Pos is the zero-based entry index on its
// page). Geo stays nil until geocoding resolves the location.
type AccidentRecord struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	LocalTime     string `json:"local_time,omitempty"`
	Location      string `json:"location"`
	AirplaneModel string `json:"airplane_model,omitempty"`
	Fatalities    *int   `json:"fatalities,omitempty"`

	Geo       *Geo   `json:"geo,omitempty"`
	GeoSource string `json:"geo_source,omitempty"`

	Page      int       `json:"page"`
	Pos       int       `json:"pos"`
	ScrapedAt time.Time `json:"scraped_at"`
}
