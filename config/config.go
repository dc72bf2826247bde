package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"order-admin/internal/database"

	"go.uber.org/zap"
)

type Config struct {
	Port      string
	GinMode   string
	OpTimeout time.Duration
	DB        DB
	Redis     Redis
	Kafka     Kafka
	Outbox    Outbox
}

type DB struct {
	database.Config
}

type Redis struct {
	Enabled    bool
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

type Kafka struct {
	Enabled bool
	Brokers []string
	Topic   string
	GroupID string
}

type Outbox struct {
	Interval  time.Duration
	BatchSize int
	Retention time.Duration
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port:      getEnv("APP_PORT", log),
		GinMode:   os.Getenv("GIN_MODE"),
		OpTimeout: time.Duration(atoiDefault(os.Getenv("OP_TIMEOUT_SECONDS"), 5)) * time.Second,
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		Redis: Redis{
			Enabled:    os.Getenv("REDIS_ENABLED") == "true",
			Addr:       envDefault("REDIS_ADDR", "localhost:6379"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         atoiDefault(os.Getenv("REDIS_DB"), 0),
			TTLSeconds: atoiDefault(os.Getenv("CACHE_TTL_SECONDS"), 60),
		},
		Kafka: Kafka{
			Enabled: os.Getenv("KAFKA_ENABLED") == "true",
			Brokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
			Topic:   envDefault("KAFKA_TOPIC_ORDERS", "orders.events"),
			GroupID: envDefault("KAFKA_GROUP_ID", "order-admin-cache"),
		},
		Outbox: Outbox{
			Interval:  time.Duration(atoiDefault(os.Getenv("OUTBOX_INTERVAL_MS"), 500)) * time.Millisecond,
			BatchSize: atoiDefault(os.Getenv("OUTBOX_BATCH_SIZE"), 50),
			Retention: time.Duration(atoiDefault(os.Getenv("OUTBOX_RETENTION_HOURS"), 72)) * time.Hour,
		},
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func envDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
