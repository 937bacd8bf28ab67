package export

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crash-archive-etl/internal/domain"
	"github.com/couchcryptid/crash-archive-etl/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(n int) *int { return &n }

func sampleRecords() []domain.AccidentRecord {
	return []domain.AccidentRecord{
		{
			Date:          "Sep 10, 2017 ",
			LocalTime:     " 1130 LT",
			Location:      "Moyo",
			AirplaneModel: "Cessna 208B Grand Caravan",
			Fatalities:    intPtr(4),
			Geo:           &domain.Geo{Lat: 3.6616, Lon: 31.7243},
			GeoSource:     domain.GeoSourceMapbox,
		},
		{
			Date:     "Dec 2, 1977",
			Location: "Rome",
			// Unknown model and fatalities, never geocoded.
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	// Date cells contain commas, so encoding/csv quotes them.
	assert.Equal(t, "Date,Local time,Location,Airplane model,Fatalities,lon,lat", lines[0])
	assert.Equal(t, `"Sep 10, 2017 ", 1130 LT,Moyo,Cessna 208B Grand Caravan,4,31.7243,3.6616`, lines[1])
	assert.Equal(t, `"Dec 2, 1977",,Rome,,,,`, lines[2])
}

func TestCSVRoundTrip(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	got, err := ReadCSV(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, got, 2)

	t.Run("geocoded row", func(t *testing.T) {
		assert.Equal(t, "Sep 10, 2017 ", got[0].Date)
		assert.Equal(t, " 1130 LT", got[0].LocalTime)
		assert.Equal(t, "Moyo", got[0].Location)
		require.NotNil(t, got[0].Fatalities)
		assert.Equal(t, 4, *got[0].Fatalities)
		require.NotNil(t, got[0].Geo)
		assert.Equal(t, 3.6616, got[0].Geo.Lat)
		assert.Equal(t, 31.7243, got[0].Geo.Lon)
		assert.Equal(t, domain.GeoSourceMapbox, got[0].GeoSource)
	})

	t.Run("sparse row", func(t *testing.T) {
		assert.Equal(t, "Dec 2, 1977", got[1].Date)
		assert.Nil(t, got[1].Fatalities)
		assert.Nil(t, got[1].Geo)
		assert.Empty(t, got[1].GeoSource)
		assert.Equal(t, 1, got[1].Pos)
	})
}

func TestReadCSV_RejectsForeignHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b,c\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected checkpoint header")
}

func TestReadCSV_RejectsBadCoordinates(t *testing.T) {
	csv := "Date,Local time,Location,Airplane model,Fatalities,lon,lat\n" +
		"\"Dec 2, 1977\",,Rome,,,east,north\n"
	_, err := ReadCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid coordinates")
}

func TestCSVExporter_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "accidents.csv")
	exporter := NewCSVExporter(path, observability.NewMetricsForTesting(), discardLogger())

	require.NoError(t, exporter.Load(t.Context(), sampleRecords()))
	assert.Equal(t, "csv", exporter.Name())

	got, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
