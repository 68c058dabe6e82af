// Package config loads service settings from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Windows lists the SWPC product windows the service can fetch.
var Windows = []string{"5-minute", "2-hour", "6-hour", "1-day", "3-day", "7-day"}

// Config holds all service settings, populated from environment variables.
type Config struct {
	SWPCBaseURL string
	SWPCWindow  string

	FetchInterval time.Duration
	FetchTimeout  time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka sink configuration.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchInterval, err := durationOrDefault("FETCH_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := durationOrDefault("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		SWPCBaseURL:     envOrDefault("SWPC_BASE_URL", "https://services.swpc.noaa.gov/products/solar-wind"),
		SWPCWindow:      envOrDefault("SWPC_WINDOW", "5-minute"),
		FetchInterval:   fetchInterval,
		FetchTimeout:    fetchTimeout,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:  envOrDefault("KAFKA_SINK_TOPIC", "solar-wind-records"),
	}

	if cfg.SWPCBaseURL == "" {
		return nil, fmt.Errorf("SWPC_BASE_URL is required")
	}
	if !validWindow(cfg.SWPCWindow) {
		return nil, fmt.Errorf("invalid SWPC_WINDOW %q: must be one of %s", cfg.SWPCWindow, strings.Join(Windows, ", "))
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, fmt.Errorf("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationOrDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func validWindow(w string) bool {
	for _, valid := range Windows {
		if w == valid {
			return true
		}
	}
	return false
}
