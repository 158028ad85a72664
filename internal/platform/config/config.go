package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Catalog port binding modes. Remote moves the products module behind an
// HTTP seam without changing any caller.
const (
	CatalogBindingInProcess = "inprocess"
	CatalogBindingRemote    = "remote"
)

// OutboxConfig tunes the relay loops. One value set applies to every
// module's relay; per-module tuning has not been needed.
type OutboxConfig struct {
	BatchSize      int
	MaxAttempts    int
	BaseBackoff    time.Duration
	MaxBackoff     time.Duration
	PublishTimeout time.Duration
	PollInterval   time.Duration
}

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string

	CatalogBinding    string
	CatalogRemoteBase string

	Outbox   OutboxConfig
	DedupTTL time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "caravel"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	binding := strings.TrimSpace(strings.ToLower(os.Getenv("CATALOG_PORT_BINDING")))
	if binding != CatalogBindingRemote {
		binding = CatalogBindingInProcess
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		KafkaBrokers: brokers,

		CatalogBinding:    binding,
		CatalogRemoteBase: strings.TrimSpace(os.Getenv("CATALOG_REMOTE_BASE_URL")),

		Outbox: OutboxConfig{
			BatchSize:      envInt("OUTBOX_BATCH_SIZE", 100),
			MaxAttempts:    envInt("OUTBOX_MAX_ATTEMPTS", 8),
			BaseBackoff:    envDuration("OUTBOX_BASE_BACKOFF", 500*time.Millisecond),
			MaxBackoff:     envDuration("OUTBOX_MAX_BACKOFF", time.Minute),
			PublishTimeout: envDuration("OUTBOX_PUBLISH_TIMEOUT", 5*time.Second),
			PollInterval:   envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		},
		DedupTTL: envDuration("CONSUMER_DEDUP_TTL", 7*24*time.Hour),
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
