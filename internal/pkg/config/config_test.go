package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestUnmarshalDurations(t *testing.T) {
	data := []byte(`
checkout:
  tax_rate: 0.08
  upstream_timeout: 2s
  idempotency_ttl: 1h
`)
	cfg := defaults()
	require.NoError(t, yaml.Unmarshal(data, &cfg))

	assert.Equal(t, 0.08, cfg.Checkout.TaxRate)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.Checkout.UpstreamTimeout))
	assert.Equal(t, time.Hour, time.Duration(cfg.Checkout.IdempotencyTTL))
}

func TestUnmarshalBadDuration(t *testing.T) {
	cfg := defaults()
	err := yaml.Unmarshal([]byte("checkout:\n  upstream_timeout: soon\n"), &cfg)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("USER_DB_DSN", "root:pw@tcp(db:3306)/users?parseTime=true")
	t.Setenv("KAFKA_BROKERS", "kafka:9092")
	t.Setenv("CHECKOUT_TAX_RATE", "0.05")

	cfg := defaults()
	applyEnv(&cfg)

	assert.Equal(t, "root:pw@tcp(db:3306)/users?parseTime=true", cfg.Infra.UserDB.DSN)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Infra.Kafka.Brokers)
	assert.Equal(t, 0.05, cfg.Checkout.TaxRate)
}

func TestDefaultsKeepServiceURLs(t *testing.T) {
	cfg := defaults()
	assert.Equal(t, "http://localhost:8082", cfg.Services.UserService)
	assert.Equal(t, "http://localhost:8083", cfg.Services.InventoryService)
	assert.Equal(t, "http://localhost:8084", cfg.Services.IdpService)
}
