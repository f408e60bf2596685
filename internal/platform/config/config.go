package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	WorkerPollInterval    time.Duration
	NotificationRetention time.Duration
	RecountWindow         time.Duration
	RecountBatchSize      int

	EnableOutboxRelay           bool
	EnableNotificationRetention bool
	EnableCounterReconciliation bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "agora"
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

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		WorkerPollInterval:    time.Duration(envInt("WORKER_POLL_INTERVAL_SECONDS", 15)) * time.Second,
		NotificationRetention: time.Duration(envInt("NOTIFICATION_RETENTION_HOURS", 720)) * time.Hour,
		RecountWindow:         time.Duration(envInt("RECOUNT_WINDOW_HOURS", 24)) * time.Hour,
		RecountBatchSize:      envInt("RECOUNT_BATCH_SIZE", 200),

		EnableOutboxRelay:           envBool("ENABLE_OUTBOX_RELAY", true),
		EnableNotificationRetention: envBool("ENABLE_NOTIFICATION_RETENTION", true),
		EnableCounterReconciliation: envBool("ENABLE_COUNTER_RECONCILIATION", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
