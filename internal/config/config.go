package config

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StorageCRDB   = "crdb"
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	Storage         string        `envconfig:"STORAGE" default:"crdb"`
	CRDBDSN         string        `envconfig:"CRDB_DSN"`
	MongoURI        string        `envconfig:"MONGO_URI"`
	MongoDatabase   string        `envconfig:"MONGO_DATABASE" default:"webinars"`
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RabbitURL       string        `envconfig:"RABBIT_URL"`
	JWTSecret       string        `envconfig:"JWT_SECRET"`
	CacheTTL        time.Duration `envconfig:"CACHE_TTL" default:"1m"`
	IdempotencyTTL  time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"1h"`
	RateLimit       int           `envconfig:"RATE_LIMIT" default:"10"`
	RateLimitPeriod time.Duration `envconfig:"RATE_LIMIT_PERIOD" default:"1m"`
	OutboxInterval  time.Duration `envconfig:"OUTBOX_INTERVAL" default:"5s"`
	SeatsQueue      string        `envconfig:"SEATS_QUEUE" default:"webinar.seats.q"`
	OTLPEndpoint    string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "process env")
	}

	switch cfg.Storage {
	case StorageCRDB, StorageMongo, StorageMemory:
	default:
		return nil, errors.Newf("unknown storage %q", cfg.Storage)
	}

	return &cfg, nil
}
