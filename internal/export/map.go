package export

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/crash-archive-etl/internal/domain"
	"github.com/couchcryptid/crash-archive-etl/internal/observability"
)

// marker is one bubble on the rendered map. Radius is in meters, the unit
// of a Leaflet L.circle.
type marker struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Radius float64 `json:"radius"`
	Popup  string  `json:"popup"`
}

// MapRenderer writes the table as an interactive Leaflet bubble map. It
// implements pipeline.Loader.
type MapRenderer struct {
	path    string
	scale   float64
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewMapRenderer creates a map sink writing to path. Each bubble's radius
// is the record's fatality count times scale meters.
func NewMapRenderer(path string, scale float64, metrics *observability.Metrics, logger *slog.Logger) *MapRenderer {
	return &MapRenderer{path: path, scale: scale, metrics: metrics, logger: logger}
}

func (r *MapRenderer) Name() string { return "map" }

// Load renders one bubble per record with coordinates. Records that were
// never geocoded are left off the map, not errored.
func (r *MapRenderer) Load(_ context.Context, records []domain.AccidentRecord) error {
	markers := buildMarkers(records, r.scale)

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create map directory: %w", err)
	}
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("create map %s: %w", r.path, err)
	}
	defer f.Close()

	if err := renderHTML(f, markers); err != nil {
		return fmt.Errorf("render map %s: %w", r.path, err)
	}

	r.metrics.RecordsExported.WithLabelValues("map").Add(float64(len(markers)))
	r.logger.Info("map rendered", "path", r.path, "markers", len(markers), "records", len(records))
	return nil
}

// buildMarkers converts records to bubbles, skipping those without
// coordinates. An unknown fatality count draws a zero-radius bubble: the
// accident stays on the map (its popup is still reachable via the center
// point at high zoom) without inventing a size for it.
func buildMarkers(records []domain.AccidentRecord, scale float64) []marker {
	markers := make([]marker, 0, len(records))
	for _, rec := range records {
		if rec.Geo == nil {
			continue
		}

		radius := 0.0
		count := "?"
		if rec.Fatalities != nil {
			radius = float64(*rec.Fatalities) * scale
			count = strconv.Itoa(*rec.Fatalities)
		}

		markers = append(markers, marker{
			Lat:    rec.Geo.Lat,
			Lon:    rec.Geo.Lon,
			Radius: radius,
			Popup:  fmt.Sprintf("%s<br>%s Fatalities in %s", rec.Location, count, rec.Date),
		})
	}
	return markers
}

// mapTemplate is a self-contained Leaflet page; the marker list is injected
// as JSON by html/template's script-context encoding. Leaflet itself comes
// from the unpkg CDN, so the artifact needs the network to display but
// carries no local assets.
var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Aviation Accidents</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var markers = {{.}};

// Center the initial view on the mean marker position.
var center = [0, 0];
if (markers.length > 0) {
	markers.forEach(function (m) { center[0] += m.lat; center[1] += m.lon; });
	center[0] /= markers.length;
	center[1] /= markers.length;
}

var map = L.map('map').setView(center, 2);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
	maxZoom: 18,
	attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

markers.forEach(function (m) {
	L.circle([m.lat, m.lon], {
		radius: m.radius,
		color: 'crimson',
		fillColor: 'crimson',
		fillOpacity: 0.4
	}).addTo(map).bindPopup(m.popup);
});
</script>
</body>
</html>
`))

// renderHTML writes the Leaflet page around the marker list. An empty list
// renders a bare world map.
func renderHTML(w io.Writer, markers []marker) error {
	if markers == nil {
		markers = []marker{} // nil would inject JSON null, breaking the page script
	}
	return mapTemplate.Execute(w, markers)
}
