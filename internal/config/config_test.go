package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("ORDER_TX_TIMEOUT", "")
	t.Setenv("JWT_EXPIRE_MINUTES", "")

	cfg := Load()

	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.OrderTxTimeout)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("ORDER_TX_TIMEOUT", "750ms")
	t.Setenv("JWT_EXPIRE_MINUTES", "10")
	t.Setenv("MIGRATE", "true")
	t.Setenv("CACHESYNC_WORKERS", "not-a-number")

	cfg := Load()

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 750*time.Millisecond, cfg.OrderTxTimeout)
	assert.Equal(t, 10*time.Minute, cfg.JWTExpiry)
	assert.True(t, cfg.Migrate)
	assert.Equal(t, 4, cfg.CacheSyncWorkers)
}

func TestValidateAPI_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Error(t, Load().ValidateAPI())

	t.Setenv("JWT_SECRET", "s3cret")
	cfg := Load()
	assert.NoError(t, cfg.ValidateAPI())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}
