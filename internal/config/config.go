package config

import (
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/monaltech/saleor/internal/modules/cybersource"
)

type Config struct {
	Env  string `env:"APP_ENV" env-default:"development"`
	Addr string `env:"HTTP_ADDR" env-default:":8080"`

	DBDSN string `env:"DB_DSN" env-required:"true"`

	Gateway GatewayConfig
	Archive ArchiveConfig
}

// GatewayConfig holds the Secure Acceptance profile credentials.
type GatewayConfig struct {
	MerchantID string `env:"CYBERSOURCE_MERCHANT_ID"`
	ProfileID  string `env:"CYBERSOURCE_PROFILE_ID"`
	AccessKey  string `env:"CYBERSOURCE_ACCESS_KEY"`
	SecretKey  string `env:"CYBERSOURCE_SECRET_KEY"`

	Live          bool   `env:"CYBERSOURCE_LIVE" env-default:"false"`
	AutoCapture   bool   `env:"CYBERSOURCE_AUTO_CAPTURE" env-default:"false"`
	StoreCustomer bool   `env:"CYBERSOURCE_STORE_CUSTOMER" env-default:"false"`
	Locale        string `env:"CYBERSOURCE_LOCALE" env-default:"en"`
	Currency      string `env:"CYBERSOURCE_CURRENCY" env-default:"NPR"`

	ReturnURL string `env:"CYBERSOURCE_RETURN_URL" env-required:"true"`
	CancelURL string `env:"CYBERSOURCE_CANCEL_URL" env-required:"true"`

	// Comma separated allowlist; empty accepts any currency.
	SupportedCurrencies string `env:"CYBERSOURCE_SUPPORTED_CURRENCIES"`
}

type ArchiveConfig struct {
	Enabled bool `env:"ARCHIVE_WEBHOOKS" env-default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Cybersource converts the env shape into the adapter's config.
func (c *Config) Cybersource() *cybersource.Config {
	g := c.Gateway

	var currencies []string
	for _, cur := range strings.Split(g.SupportedCurrencies, ",") {
		if cur = strings.TrimSpace(cur); cur != "" {
			currencies = append(currencies, strings.ToUpper(cur))
		}
	}

	return &cybersource.Config{
		MerchantID:          g.MerchantID,
		ProfileID:           g.ProfileID,
		AccessKey:           g.AccessKey,
		SecretKey:           g.SecretKey,
		IsLive:              g.Live,
		AutoCapture:         g.AutoCapture,
		StoreCustomer:       g.StoreCustomer,
		Locale:              g.Locale,
		Currency:            g.Currency,
		ReturnURL:           g.ReturnURL,
		CancelURL:           g.CancelURL,
		SupportedCurrencies: currencies,
	}
}
