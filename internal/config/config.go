package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/querent-labs/horary-display/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// AggregatorMode is "ledger" unless HORARY_USE_DSL selects the solar
	// aggregation engine.
	AggregatorMode domain.AggregatorMode

	// Taxonomy service configuration (contract resolution).
	TaxonomyURL       string
	TaxonomyEnabled   bool
	TaxonomyTimeout   time.Duration
	TaxonomyCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	batchSize, err := parsePositiveInt("BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}

	flushInterval, err := parsePositiveDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	taxonomyTimeout, err := parsePositiveDuration("TAXONOMY_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	taxonomyCacheSize, err := parsePositiveInt("TAXONOMY_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	taxonomyURL := os.Getenv("TAXONOMY_URL")
	taxonomyEnabled := taxonomyURL != ""
	if v := os.Getenv("TAXONOMY_ENABLED"); v != "" {
		taxonomyEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "evaluated-charts"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "chart-display-payloads"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "horary-display"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		AggregatorMode:     aggregatorMode(),

		TaxonomyURL:       taxonomyURL,
		TaxonomyEnabled:   taxonomyEnabled,
		TaxonomyTimeout:   taxonomyTimeout,
		TaxonomyCacheSize: taxonomyCacheSize,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.TaxonomyEnabled && cfg.TaxonomyURL == "" {
		return nil, errors.New("TAXONOMY_ENABLED is true but TAXONOMY_URL is not set")
	}

	return cfg, nil
}

// aggregatorMode reads the HORARY_USE_DSL override. The flag predates this
// service and keeps its legacy truthy spellings.
func aggregatorMode() domain.AggregatorMode {
	switch strings.ToLower(os.Getenv("HORARY_USE_DSL")) {
	case "1", "true", "yes":
		return domain.AggregatorModeSolar
	default:
		return domain.AggregatorModeLedger
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
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
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
