package avatax

import (
	"errors"
	"time"
)

// AvaTax REST API endpoints
const (
	// ProductionAPIURL is the production API endpoint
	ProductionAPIURL = "https://rest.avatax.com"
	// SandboxAPIURL is the sandbox API endpoint
	SandboxAPIURL = "https://sandbox-rest.avatax.com"
)

// Errors for AvaTax client configuration
var (
	ErrConfigMissingAccountID   = errors.New("avatax: account ID is required")
	ErrConfigMissingLicenseKey  = errors.New("avatax: license key is required")
	ErrConfigMissingCompanyCode = errors.New("avatax: company code is required")
)

// Config holds configuration for the AvaTax REST client
type Config struct {
	// AccountID is the AvaTax account identifier, used as the basic
	// auth username
	AccountID string
	// LicenseKey is the account's license key, used as the basic auth
	// password
	LicenseKey string
	// CompanyCode is the company the transactions belong to
	CompanyCode string
	// APIBaseURL is the base URL (production or sandbox)
	APIBaseURL string
	// IsSandbox indicates if this targets the sandbox environment
	IsSandbox bool
	// Timeout bounds every call to the service
	Timeout time.Duration
}

// NewConfig creates a client configuration with production defaults
func NewConfig(accountID, licenseKey, companyCode string) *Config {
	return &Config{
		AccountID:   accountID,
		LicenseKey:  licenseKey,
		CompanyCode: companyCode,
		APIBaseURL:  ProductionAPIURL,
		Timeout:     30 * time.Second,
	}
}

// NewSandboxConfig creates a client configuration for the sandbox environment
func NewSandboxConfig(accountID, licenseKey, companyCode string) *Config {
	cfg := NewConfig(accountID, licenseKey, companyCode)
	cfg.APIBaseURL = SandboxAPIURL
	cfg.IsSandbox = true
	return cfg
}

// Validate checks that the configuration is complete
func (c *Config) Validate() error {
	if c.AccountID == "" {
		return ErrConfigMissingAccountID
	}
	if c.LicenseKey == "" {
		return ErrConfigMissingLicenseKey
	}
	if c.CompanyCode == "" {
		return ErrConfigMissingCompanyCode
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = ProductionAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
