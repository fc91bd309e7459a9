package cybersource

import "strings"

// Hosted payment page endpoints.
const (
	LiveURL = "https://secureacceptance.cybersource.com/pay"
	TestURL = "https://testsecureacceptance.cybersource.com/pay"
)

// Defaults filled in by the request builder when the caller supplies
// nothing and the configuration is silent.
const (
	DefaultCurrency      = "NPR"
	DefaultLocale        = "en"
	DefaultPaymentMethod = "card"
)

// Config holds one Secure Acceptance profile. Immutable for the lifetime
// of a request-building or validation operation; the secret key is only
// ever used for signing, never transmitted.
type Config struct {
	MerchantID string
	ProfileID  string
	AccessKey  string
	SecretKey  string

	IsLive        bool
	AutoCapture   bool
	StoreCustomer bool

	Locale    string
	Currency  string
	ReturnURL string
	CancelURL string

	// SupportedCurrencies limits build requests; empty means no limit.
	SupportedCurrencies []string
}

// Validate fails fast on missing credentials.
func (c *Config) Validate() error {
	var missing []string
	if c.MerchantID == "" {
		missing = append(missing, "merchant_id")
	}
	if c.ProfileID == "" {
		missing = append(missing, "profile_id")
	}
	if c.AccessKey == "" {
		missing = append(missing, "access_key")
	}
	if c.SecretKey == "" {
		missing = append(missing, "secret_key")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// Endpoint returns the hosted payment page URL for this profile.
func (c *Config) Endpoint() string {
	if c.IsLive {
		return LiveURL
	}
	return TestURL
}

// TransactionType returns the outbound transaction type for this
// profile's capture policy.
func (c *Config) TransactionType() string {
	if c.AutoCapture {
		return TransactionTypeCapture
	}
	return TransactionTypeAuth
}

// SupportsCurrency reports whether the profile accepts the currency code.
func (c *Config) SupportsCurrency(code string) bool {
	if len(c.SupportedCurrencies) == 0 {
		return true
	}
	for _, cur := range c.SupportedCurrencies {
		if strings.EqualFold(strings.TrimSpace(cur), code) {
			return true
		}
	}
	return false
}
