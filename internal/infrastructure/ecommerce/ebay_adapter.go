package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/listbridge/backend/internal/domain/listing"
)

// ebayMaxResponseSize is the maximum allowed response size from the eBay
// Sell APIs (10MB)
const ebayMaxResponseSize = 10 * 1024 * 1024

// EbayAdapter implements the Marketplace interface for the eBay Sell
// Inventory and Account APIs
type EbayAdapter struct {
	config     *EbayConfig
	httpClient *http.Client
}

// NewEbayAdapter creates a new eBay adapter with the given configuration
func NewEbayAdapter(config *EbayConfig) (*EbayAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &EbayAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ---------------------------------------------------------------------------
// Inventory Item Operations
// ---------------------------------------------------------------------------

// PutInventoryItem creates or replaces the inventory item keyed by its SKU
func (a *EbayAdapter) PutInventoryItem(ctx context.Context, item *listing.InventoryItem) error {
	path := "/sell/inventory/v1/inventory_item/" + url.PathEscape(item.SKU)

	status, body, err := a.doRequest(ctx, http.MethodPut, path, EbayInventoryItemFromDomain(item))
	if err != nil {
		return err
	}
	if status >= 400 {
		return a.apiError(status, body)
	}
	return nil
}

// GetInventoryItem reads an inventory item by SKU
func (a *EbayAdapter) GetInventoryItem(ctx context.Context, sku string) (*listing.InventoryItem, error) {
	path := "/sell/inventory/v1/inventory_item/" + url.PathEscape(sku)

	status, body, err := a.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, a.apiError(status, body)
	}

	var resp EbayGetInventoryItemResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", listing.ErrMarketplaceInvalidResponse, err)
	}

	return resp.ToDomain(), nil
}

// ---------------------------------------------------------------------------
// Offer Operations
// ---------------------------------------------------------------------------

// CreateOffer creates a new offer and returns its offer ID
func (a *EbayAdapter) CreateOffer(ctx context.Context, offer *listing.Offer) (string, error) {
	status, body, err := a.doRequest(ctx, http.MethodPost, "/sell/inventory/v1/offer", EbayOfferFromDomain(offer))
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", a.apiError(status, body)
	}

	var resp EbayCreateOfferResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: failed to parse response: %v", listing.ErrMarketplaceInvalidResponse, err)
	}
	if resp.OfferID == "" {
		return "", fmt.Errorf("%w: create offer returned no offer ID", listing.ErrMarketplaceInvalidResponse)
	}

	return resp.OfferID, nil
}

// UpdateOffer replaces an existing offer in place
func (a *EbayAdapter) UpdateOffer(ctx context.Context, offerID string, offer *listing.Offer) error {
	path := "/sell/inventory/v1/offer/" + url.PathEscape(offerID)

	status, body, err := a.doRequest(ctx, http.MethodPut, path, EbayOfferFromDomain(offer))
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", listing.ErrOfferNotFound, offerID)
	}
	if status >= 400 {
		return a.apiError(status, body)
	}
	return nil
}

// PublishOffer publishes an offer and returns the live listing ID
func (a *EbayAdapter) PublishOffer(ctx context.Context, offerID string) (string, error) {
	path := "/sell/inventory/v1/offer/" + url.PathEscape(offerID) + "/publish"

	status, body, err := a.doRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", listing.ErrOfferNotFound, offerID)
	}
	if status >= 400 {
		return "", a.apiError(status, body)
	}

	var resp EbayPublishOfferResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: failed to parse response: %v", listing.ErrMarketplaceInvalidResponse, err)
	}
	if resp.ListingID == "" {
		return "", fmt.Errorf("%w: publish returned no listing ID", listing.ErrMarketplaceInvalidResponse)
	}

	return resp.ListingID, nil
}

// WithdrawOffer unpublishes an offer, ending the live listing
func (a *EbayAdapter) WithdrawOffer(ctx context.Context, offerID string) error {
	path := "/sell/inventory/v1/offer/" + url.PathEscape(offerID) + "/withdraw"

	status, body, err := a.doRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", listing.ErrOfferNotFound, offerID)
	}
	if status >= 400 {
		var envelope EbayErrorResponse
		if json.Unmarshal(body, &envelope) == nil && envelope.HasErrorID(ebayErrorIDOfferNotAvailable) {
			return listing.ErrOfferAlreadyUnpublished
		}
		return a.apiError(status, body)
	}
	return nil
}

// ListOffers returns all offers referencing the SKU. A SKU with no offers
// yields an empty slice.
func (a *EbayAdapter) ListOffers(ctx context.Context, sku string) ([]listing.OfferSummary, error) {
	path := "/sell/inventory/v1/offer?sku=" + url.QueryEscape(sku)

	status, body, err := a.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	// The get-offers call answers 404 for SKUs that have no offers at all
	if status == http.StatusNotFound {
		return []listing.OfferSummary{}, nil
	}
	if status >= 400 {
		return nil, a.apiError(status, body)
	}

	var resp EbayGetOffersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", listing.ErrMarketplaceInvalidResponse, err)
	}

	summaries := make([]listing.OfferSummary, 0, len(resp.Offers))
	for i := range resp.Offers {
		summaries = append(summaries, resp.Offers[i].ToDomain())
	}

	return summaries, nil
}

// DeleteOffer deletes an offer by ID. Deleting an offer that is already gone
// is a no-op.
func (a *EbayAdapter) DeleteOffer(ctx context.Context, offerID string) error {
	path := "/sell/inventory/v1/offer/" + url.PathEscape(offerID)

	status, body, err := a.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return nil
	}
	if status >= 400 {
		return a.apiError(status, body)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Location and Policy Operations
// ---------------------------------------------------------------------------

// EnsureLocation creates the fulfillment location if it does not already exist
func (a *EbayAdapter) EnsureLocation(ctx context.Context, key string, address listing.MerchantAddress) error {
	path := "/sell/inventory/v1/location/" + url.PathEscape(key)

	status, body, err := a.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status < 400 {
		return nil
	}
	if status != http.StatusNotFound {
		return a.apiError(status, body)
	}

	payload := &EbayInventoryLocation{
		Location: EbayLocationDetails{
			Address: EbayAddress{
				AddressLine1:    address.AddressLine1,
				City:            address.City,
				StateOrProvince: address.StateOrProvince,
				PostalCode:      address.PostalCode,
				Country:         address.Country,
			},
		},
		Name:                   key,
		MerchantLocationStatus: "ENABLED",
		LocationTypes:          []string{"WAREHOUSE"},
	}

	status, body, err = a.doRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	if status >= 400 {
		return a.apiError(status, body)
	}
	return nil
}

// GetSellingPolicies reads the seller's business policy IDs, taking the first
// policy of each kind for the configured marketplace
func (a *EbayAdapter) GetSellingPolicies(ctx context.Context) (*listing.SellingPolicyIDs, error) {
	marketplace := url.QueryEscape(a.config.MarketplaceID)

	var fulfillment EbayFulfillmentPoliciesResponse
	if err := a.getJSON(ctx, "/sell/account/v1/fulfillment_policy?marketplace_id="+marketplace, &fulfillment); err != nil {
		return nil, err
	}
	if len(fulfillment.FulfillmentPolicies) == 0 {
		return nil, fmt.Errorf("%w: no fulfillment policy configured", listing.ErrMarketplaceInvalidResponse)
	}

	var payment EbayPaymentPoliciesResponse
	if err := a.getJSON(ctx, "/sell/account/v1/payment_policy?marketplace_id="+marketplace, &payment); err != nil {
		return nil, err
	}
	if len(payment.PaymentPolicies) == 0 {
		return nil, fmt.Errorf("%w: no payment policy configured", listing.ErrMarketplaceInvalidResponse)
	}

	var returns EbayReturnPoliciesResponse
	if err := a.getJSON(ctx, "/sell/account/v1/return_policy?marketplace_id="+marketplace, &returns); err != nil {
		return nil, err
	}
	if len(returns.ReturnPolicies) == 0 {
		return nil, fmt.Errorf("%w: no return policy configured", listing.ErrMarketplaceInvalidResponse)
	}

	return &listing.SellingPolicyIDs{
		FulfillmentPolicyID: fulfillment.FulfillmentPolicies[0].FulfillmentPolicyID,
		PaymentPolicyID:     payment.PaymentPolicies[0].PaymentPolicyID,
		ReturnPolicyID:      returns.ReturnPolicies[0].ReturnPolicyID,
	}, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs an HTTP request against the eBay Sell APIs and returns
// the status code with the response body. Transport and read failures are the
// only errors; callers interpret the status code.
func (a *EbayAdapter) doRequest(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("ebay: failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("ebay: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.config.OAuthToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", a.config.MarketplaceID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		// Inventory writes require the content language of the listing text
		req.Header.Set("Content-Language", "en-US")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", listing.ErrMarketplaceRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, ebayMaxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("ebay: failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// getJSON performs a GET request and decodes a successful response into out
func (a *EbayAdapter) getJSON(ctx context.Context, path string, out any) error {
	status, body, err := a.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status >= 400 {
		return a.apiError(status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", listing.ErrMarketplaceInvalidResponse, err)
	}
	return nil
}

// apiError maps a non-2xx response to a domain error
func (a *EbayAdapter) apiError(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return listing.ErrMarketplaceAuthFailed
	case http.StatusTooManyRequests:
		return listing.ErrMarketplaceRateLimited
	}

	var envelope EbayErrorResponse
	if json.Unmarshal(body, &envelope) == nil && envelope.FirstMessage() != "" {
		return fmt.Errorf("%w: HTTP %d: %s", listing.ErrMarketplaceRequestFailed, status, envelope.FirstMessage())
	}
	return fmt.Errorf("%w: HTTP %d", listing.ErrMarketplaceRequestFailed, status)
}

// Ensure EbayAdapter implements the Marketplace interface
var _ listing.Marketplace = (*EbayAdapter)(nil)
