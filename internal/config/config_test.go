package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LEDGER_MAX_ATTEMPTS", "")
	t.Setenv("SIDE_EFFECT_TIMEOUT", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	assert.Equal(t, 3, cfg.Ledger.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Ledger.SideEffectTimeout)
	assert.False(t, cfg.Kafka.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LEDGER_MAX_ATTEMPTS", "5")
	t.Setenv("SIDE_EFFECT_TIMEOUT", "2s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("STORE", StoreMemory)

	cfg := Load()
	assert.Equal(t, 5, cfg.Ledger.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Ledger.SideEffectTimeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, StoreMemory, cfg.Store)
}

func TestGetIntEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, GetIntEnv("SOME_INT", 7))
}
