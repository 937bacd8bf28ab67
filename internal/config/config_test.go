package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultArchiveURL = "https://www.baaa-acro.com"
	testMapboxToken   = "pk.test-token"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultArchiveURL, cfg.ArchiveBaseURL)
	assert.Equal(t, 1, cfg.FirstPage)
	assert.Equal(t, 5, cfg.LastPage)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 1*time.Second, cfg.FetchDelay)
	assert.Equal(t, "crash-archive-etl/1.0", cfg.UserAgent)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/accidents.csv", cfg.CSVPath)
	assert.Equal(t, "data/accidents_map.html", cfg.MapPath)
	assert.Equal(t, 1000.0, cfg.MapScaleMeters)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
	assert.Equal(t, 2500, cfg.GeocodeDailyBudget)
	assert.Equal(t, "stop", cfg.GeocodeBudgetPolicy)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "accident-records", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("ARCHIVE_BASE_URL", "https://archive.example.com/")
	t.Setenv("FIRST_PAGE", "3")
	t.Setenv("LAST_PAGE", "12")
	t.Setenv("FETCH_TIMEOUT", "30s")
	t.Setenv("FETCH_DELAY", "250ms")
	t.Setenv("USER_AGENT", "custom-agent/2.0")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CSV_PATH", "/tmp/out.csv")
	t.Setenv("MAP_PATH", "/tmp/map.html")
	t.Setenv("MAP_SCALE_METERS", "500")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")
	t.Setenv("GEOCODE_DAILY_BUDGET", "100")
	t.Setenv("GEOCODE_BUDGET_POLICY", "abort")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://archive.example.com/", cfg.ArchiveBaseURL)
	assert.Equal(t, 3, cfg.FirstPage)
	assert.Equal(t, 12, cfg.LastPage)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.FetchDelay)
	assert.Equal(t, "custom-agent/2.0", cfg.UserAgent)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/tmp/out.csv", cfg.CSVPath)
	assert.Equal(t, "/tmp/map.html", cfg.MapPath)
	assert.Equal(t, 500.0, cfg.MapScaleMeters)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
	assert.Equal(t, 100, cfg.GeocodeDailyBudget)
	assert.Equal(t, "abort", cfg.GeocodeBudgetPolicy)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeFetchDelay(t *testing.T) {
	t.Setenv("FETCH_DELAY", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_DELAY")
}

func TestLoad_ZeroFetchDelayAllowed(t *testing.T) {
	t.Setenv("FETCH_DELAY", "0s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.FetchDelay)
}

func TestLoad_InvalidFirstPage(t *testing.T) {
	t.Setenv("FIRST_PAGE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIRST_PAGE")
}

func TestLoad_LastPageBeforeFirstPage(t *testing.T) {
	t.Setenv("FIRST_PAGE", "7")
	t.Setenv("LAST_PAGE", "3")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LAST_PAGE")
}

func TestLoad_InvalidDailyBudget(t *testing.T) {
	t.Setenv("GEOCODE_DAILY_BUDGET", "-5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODE_DAILY_BUDGET")
}

func TestLoad_InvalidBudgetPolicy(t *testing.T) {
	t.Setenv("GEOCODE_BUDGET_POLICY", "panic")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODE_BUDGET_POLICY")
}

func TestLoad_InvalidMapScale(t *testing.T) {
	t.Setenv("MAP_SCALE_METERS", "zero")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAP_SCALE_METERS")
}

func TestLoad_InvalidMapboxTimeout(t *testing.T) {
	t.Setenv("MAPBOX_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TIMEOUT")
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}

func TestLoad_KafkaEnabledWithoutTopic(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_TOPIC", "")
	cfg, err := Load()
	// The default topic applies when unset, so an enabled sink still loads.
	require.NoError(t, err)
	assert.Equal(t, "accident-records", cfg.KafkaTopic)
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
