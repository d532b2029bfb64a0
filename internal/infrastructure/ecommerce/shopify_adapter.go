package ecommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/listbridge/backend/internal/domain/listing"
)

// shopifyMaxResponseSize is the maximum allowed response size from the
// Shopify Admin API (10MB)
const shopifyMaxResponseSize = 10 * 1024 * 1024

// ShopifyAdapter implements the SourceCatalog interface for the Shopify
// Admin REST API
type ShopifyAdapter struct {
	config     *ShopifyConfig
	httpClient *http.Client
}

// NewShopifyAdapter creates a new Shopify adapter with the given configuration
func NewShopifyAdapter(config *ShopifyConfig) (*ShopifyAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ShopifyAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ---------------------------------------------------------------------------
// Catalog Operations
// ---------------------------------------------------------------------------

// GetProduct retrieves one detailed product by its numeric Shopify ID
func (a *ShopifyAdapter) GetProduct(ctx context.Context, id string) (*listing.SourceProduct, error) {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: invalid product ID %q", listing.ErrSourceProductNotFound, id)
	}

	body, err := a.doRequest(ctx, fmt.Sprintf("/products/%s.json", id), nil)
	if err != nil {
		return nil, err
	}

	var resp ShopifyProductResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", listing.ErrSourceInvalidResponse, err)
	}

	if resp.Product == nil {
		return nil, listing.ErrSourceInvalidResponse
	}

	return resp.Product.ToDomain(), nil
}

// ListProducts fetches a page of products matching the status filter
func (a *ShopifyAdapter) ListProducts(ctx context.Context, status listing.SourceProductStatus, limit int) ([]listing.SourceProduct, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	body, err := a.doRequest(ctx, "/products.json", query)
	if err != nil {
		return nil, err
	}

	var resp ShopifyProductsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", listing.ErrSourceInvalidResponse, err)
	}

	products := make([]listing.SourceProduct, 0, len(resp.Products))
	for i := range resp.Products {
		products = append(products, *resp.Products[i].ToDomain())
	}

	return products, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs a GET request against the Shopify Admin API
func (a *ShopifyAdapter) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := a.config.BaseURL() + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", a.config.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", listing.ErrSourceRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, shopifyMaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, listing.ErrSourceProductNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, listing.ErrSourceAuthFailed
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, listing.ErrSourceRateLimited
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d", listing.ErrSourceRequestFailed, resp.StatusCode)
	}

	return body, nil
}

// Ensure ShopifyAdapter implements the SourceCatalog interface
var _ listing.SourceCatalog = (*ShopifyAdapter)(nil)
