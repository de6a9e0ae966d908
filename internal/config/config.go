package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App      App      `yaml:"app"`
	HTTP     HTTP     `yaml:"http"`
	Log      Log      `yaml:"log"`
	Postgres Postgres `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	Cache    Cache    `yaml:"cache"`
	Metrics  Metrics  `yaml:"metrics"`
	Tracing  Tracing  `yaml:"tracing"`
}

type App struct {
	Name string `yaml:"name" env:"APP_NAME" env-default:"dispatch-svc"`
	Env  string `yaml:"env" env:"APP_ENV" env-default:"development"`
}

type HTTP struct {
	Port int `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"booker"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"booker"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB" env-default:"booker"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	// ApplicationTopic is partitioned; partitions are assigned
	// explicitly by the dispatch core.
	ApplicationTopic string `yaml:"application_topic" env:"KAFKA_APPLICATION_TOPIC" env-default:"book-4"`
	// BatchTopic relies on the broker's default key-hash routing.
	BatchTopic     string        `yaml:"batch_topic" env:"KAFKA_BATCH_TOPIC" env-default:"book"`
	PartitionCount int32         `yaml:"partition_count" env:"KAFKA_PARTITION_COUNT" env-default:"10"`
	PublishTimeout time.Duration `yaml:"publish_timeout" env:"KAFKA_PUBLISH_TIMEOUT" env-default:"10s"`
}

type Cache struct {
	// TTL of cached capacity rows. Zero disables the cache so every
	// eligibility check reads the database directly.
	TTL time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"0s"`
}

type Metrics struct {
	Port int `yaml:"port" env:"METRICS_PORT" env-default:"9091"`
}

type Tracing struct {
	// OTLP/HTTP collector endpoint, host:port. Empty disables tracing.
	Endpoint string `yaml:"endpoint" env:"OTLP_ENDPOINT" env-default:""`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		// fallback to env vars if file not found
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else {
		// Allow env vars to override config file
		cleanenv.ReadEnv(cfg)
	}

	return cfg, nil
}
