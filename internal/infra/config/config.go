package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from
// environment variables.
type Config struct {
	Env          string
	HTTPAddr     string
	APIBaseURL   string
	APIToken     string
	APITimeout   time.Duration
	SyncTimeout  time.Duration
	KafkaBrokers []string
	KafkaPrefix  string
}

// Load parses configuration from the current environment. The remote API
// base URL and the signed-in user's token are mandatory; Kafka is
// optional and disables the event channel when absent.
func Load() (Config, error) {
	cfg := Config{
		Env:         getEnv("APP_ENV", "dev"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		APIBaseURL:  getEnv("TOURS_API_URL", ""),
		APIToken:    os.Getenv("TOURS_API_TOKEN"),
		KafkaPrefix: getEnv("KAFKA_TOPIC_PREFIX", "tourbook."),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	apiTimeout, err := parseDurationEnv("TOURS_API_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.APITimeout = apiTimeout

	syncTimeout, err := parseDurationEnv("BOOKING_SYNC_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.SyncTimeout = syncTimeout

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("TOURS_API_URL is required")
	}
	if cfg.APIToken == "" {
		return Config{}, fmt.Errorf("TOURS_API_TOKEN is required")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}
