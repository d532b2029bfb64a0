package ecommerce

import (
	"errors"
	"fmt"
	"strings"
)

// ShopifyConfig holds configuration for the Shopify Admin REST API
type ShopifyConfig struct {
	// ShopDomain is the myshopify.com domain of the store (e.g. "my-store.myshopify.com")
	ShopDomain string
	// AccessToken is the Admin API access token
	AccessToken string
	// APIVersion is the Admin API version (e.g. "2024-01")
	APIVersion string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// ShopifyDefaultAPIVersion is the Admin API version used when none is configured
const ShopifyDefaultAPIVersion = "2024-01"

// Errors for Shopify configuration
var (
	ErrShopifyConfigMissingDomain = errors.New("shopify: shop domain is required")
	ErrShopifyConfigMissingToken  = errors.New("shopify: access token is required")
)

// NewShopifyConfig creates a new Shopify configuration with defaults
func NewShopifyConfig(shopDomain, accessToken string) *ShopifyConfig {
	return &ShopifyConfig{
		ShopDomain:     shopDomain,
		AccessToken:    accessToken,
		APIVersion:     ShopifyDefaultAPIVersion,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Shopify configuration
func (c *ShopifyConfig) Validate() error {
	if c.ShopDomain == "" {
		return ErrShopifyConfigMissingDomain
	}
	if c.AccessToken == "" {
		return ErrShopifyConfigMissingToken
	}
	if c.APIVersion == "" {
		c.APIVersion = ShopifyDefaultAPIVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// BaseURL returns the versioned Admin API base URL
func (c *ShopifyConfig) BaseURL() string {
	domain := strings.TrimSuffix(c.ShopDomain, "/")
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	return fmt.Sprintf("%s/admin/api/%s", domain, c.APIVersion)
}
