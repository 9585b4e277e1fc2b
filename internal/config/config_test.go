package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("ORDER_SERVICE_URL", "http://orders.local/api/v1.0")
	t.Setenv("PAYMENT_SERVICE_URL", "http://payments.local/api/v1.0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.Equal(t, 30*time.Second, cfg.Backend.HTTPTimeout)
	assert.Equal(t, "http://orders.local/api/v1.0", cfg.Backend.OrderServiceURL)
	assert.Equal(t, "http://payments.local/api/v1.0", cfg.Backend.PaymentServiceURL)
}

func TestLoad_RequiresBackendURLs(t *testing.T) {
	t.Setenv("ORDER_SERVICE_URL", "")
	t.Setenv("PAYMENT_SERVICE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ORDER_SERVICE_URL", "http://orders.local")
	t.Setenv("PAYMENT_SERVICE_URL", "http://payments.local")
	t.Setenv("PORT", "9000")
	t.Setenv("CURRENCY", "USD")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "USD", cfg.Payment.Currency)
	assert.Equal(t, "production", cfg.Environment)
}
