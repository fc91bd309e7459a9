package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/payments?parseTime=true")
	t.Setenv("CYBERSOURCE_RETURN_URL", "https://shop.example.com/payment/done")
	t.Setenv("CYBERSOURCE_CANCEL_URL", "https://shop.example.com/payment/cancelled")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "en", cfg.Gateway.Locale)
	assert.Equal(t, "NPR", cfg.Gateway.Currency)
	assert.False(t, cfg.Gateway.Live)
	assert.False(t, cfg.Archive.Enabled)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("CYBERSOURCE_RETURN_URL", "https://shop.example.com/done")
	t.Setenv("CYBERSOURCE_CANCEL_URL", "https://shop.example.com/cancelled")

	_, err := Load()
	assert.Error(t, err)
}

func TestCybersourceConversion(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CYBERSOURCE_MERCHANT_ID", "merchant-1")
	t.Setenv("CYBERSOURCE_PROFILE_ID", "profile-1")
	t.Setenv("CYBERSOURCE_ACCESS_KEY", "access-1")
	t.Setenv("CYBERSOURCE_SECRET_KEY", "secret-1")
	t.Setenv("CYBERSOURCE_LIVE", "true")
	t.Setenv("CYBERSOURCE_AUTO_CAPTURE", "true")
	t.Setenv("CYBERSOURCE_SUPPORTED_CURRENCIES", "npr, USD ,")

	cfg, err := Load()
	require.NoError(t, err)

	cs := cfg.Cybersource()
	require.NoError(t, cs.Validate())
	assert.Equal(t, "merchant-1", cs.MerchantID)
	assert.True(t, cs.IsLive)
	assert.True(t, cs.AutoCapture)
	assert.Equal(t, []string{"NPR", "USD"}, cs.SupportedCurrencies)
	assert.Equal(t, "https://shop.example.com/payment/done", cs.ReturnURL)
}
