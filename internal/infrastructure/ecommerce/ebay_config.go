package ecommerce

import (
	"errors"
	"strings"
)

// eBay API endpoints
const (
	// EbayProductionBaseURL is the production API base URL
	EbayProductionBaseURL = "https://api.ebay.com"
	// EbaySandboxBaseURL is the sandbox API base URL
	EbaySandboxBaseURL = "https://api.sandbox.ebay.com"
)

// EbayDefaultMarketplaceID is the marketplace targeted when none is configured
const EbayDefaultMarketplaceID = "EBAY_US"

// EbayDefaultCurrency is the listing currency used when none is configured
const EbayDefaultCurrency = "USD"

// Errors for eBay configuration
var (
	ErrEbayConfigMissingToken = errors.New("ebay: OAuth token is required")
)

// EbayConfig holds configuration for the eBay Sell APIs
type EbayConfig struct {
	// BaseURL is the API base URL (production or sandbox)
	BaseURL string
	// OAuthToken is the user access token sent as a Bearer credential
	OAuthToken string
	// MarketplaceID is the target marketplace (e.g. "EBAY_US")
	MarketplaceID string
	// Currency is the listing currency (e.g. "USD")
	Currency string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// NewEbayConfig creates a new eBay configuration with production defaults
func NewEbayConfig(oauthToken string) *EbayConfig {
	return &EbayConfig{
		BaseURL:        EbayProductionBaseURL,
		OAuthToken:     oauthToken,
		MarketplaceID:  EbayDefaultMarketplaceID,
		Currency:       EbayDefaultCurrency,
		TimeoutSeconds: 30,
	}
}

// Validate validates the eBay configuration
func (c *EbayConfig) Validate() error {
	if c.OAuthToken == "" {
		return ErrEbayConfigMissingToken
	}
	if c.BaseURL == "" {
		c.BaseURL = EbayProductionBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.MarketplaceID == "" {
		c.MarketplaceID = EbayDefaultMarketplaceID
	}
	if c.Currency == "" {
		c.Currency = EbayDefaultCurrency
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
