package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Archive crawl configuration.
	ArchiveBaseURL string
	FirstPage      int
	LastPage       int
	FetchTimeout   time.Duration
	FetchDelay     time.Duration
	UserAgent      string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Export configuration.
	CSVPath        string
	MapPath        string
	MapScaleMeters float64

	// Mapbox geocoding configuration.
	MapboxToken         string
	MapboxEnabled       bool
	MapboxTimeout       time.Duration
	MapboxCacheSize     int
	GeocodeDailyBudget  int
	GeocodeBudgetPolicy string

	// Optional Kafka sink.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	// A zero delay disables throttling between page fetches.
	fetchDelay, err2 := time.ParseDuration(envOrDefault("FETCH_DELAY", "1s"))
	if err2 != nil || fetchDelay < 0 {
		return nil, errors.New("invalid FETCH_DELAY")
	}

	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	firstPage, err := parsePositiveInt("FIRST_PAGE", 1)
	if err != nil {
		return nil, err
	}

	lastPage, err := parsePositiveInt("LAST_PAGE", 5)
	if err != nil {
		return nil, err
	}

	dailyBudget, err := parsePositiveInt("GEOCODE_DAILY_BUDGET", 2500)
	if err != nil {
		return nil, err
	}

	scaleStr := envOrDefault("MAP_SCALE_METERS", "1000")
	scale, err2 := strconv.ParseFloat(scaleStr, 64)
	if err2 != nil || scale <= 0 {
		return nil, errors.New("invalid MAP_SCALE_METERS")
	}

	mapboxCacheSize := parseMapboxCacheSize()

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		ArchiveBaseURL: envOrDefault("ARCHIVE_BASE_URL", "https://www.baaa-acro.com"),
		FirstPage:      firstPage,
		LastPage:       lastPage,
		FetchTimeout:   fetchTimeout,
		FetchDelay:     fetchDelay,
		UserAgent:      envOrDefault("USER_AGENT", "crash-archive-etl/1.0"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CSVPath:        envOrDefault("CSV_PATH", "data/accidents.csv"),
		MapPath:        envOrDefault("MAP_PATH", "data/accidents_map.html"),
		MapScaleMeters: scale,

		MapboxToken:         mapboxToken,
		MapboxEnabled:       mapboxEnabled,
		MapboxTimeout:       mapboxTimeout,
		MapboxCacheSize:     mapboxCacheSize,
		GeocodeDailyBudget:  dailyBudget,
		GeocodeBudgetPolicy: envOrDefault("GEOCODE_BUDGET_POLICY", "stop"),

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "accident-records"),
	}

	if cfg.LastPage < cfg.FirstPage {
		return nil, errors.New("LAST_PAGE must not be less than FIRST_PAGE")
	}
	if cfg.GeocodeBudgetPolicy != "stop" && cfg.GeocodeBudgetPolicy != "abort" {
		return nil, errors.New(`GEOCODE_BUDGET_POLICY must be "stop" or "abort"`)
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if b := strings.TrimSpace(p); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
