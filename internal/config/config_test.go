package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dispatch-svc", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "book-4", cfg.Kafka.ApplicationTopic)
	assert.Equal(t, "book", cfg.Kafka.BatchTopic)
	assert.Equal(t, int32(10), cfg.Kafka.PartitionCount)
	assert.Equal(t, 10*time.Second, cfg.Kafka.PublishTimeout)
	// Capacity cache is off unless explicitly enabled.
	assert.Equal(t, time.Duration(0), cfg.Cache.TTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("KAFKA_PARTITION_COUNT", "4")
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, int32(4), cfg.Kafka.PartitionCount)
	assert.Equal(t, 5*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}
