package listing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Marketplace Errors
// ---------------------------------------------------------------------------

var (
	ErrMarketplaceNotConfigured   = errors.New("listing: marketplace not configured")
	ErrMarketplaceRequestFailed   = errors.New("listing: marketplace request failed")
	ErrMarketplaceInvalidResponse = errors.New("listing: invalid marketplace response")
	ErrMarketplaceAuthFailed      = errors.New("listing: marketplace authentication failed")
	ErrMarketplaceRateLimited     = errors.New("listing: marketplace rate limited")
	ErrOfferNotFound              = errors.New("listing: offer not found")
	// ErrOfferAlreadyUnpublished is raised by WithdrawOffer when the offer is
	// no longer published. Callers ending a listing treat this as success:
	// the goal state is already reached.
	ErrOfferAlreadyUnpublished = errors.New("listing: offer is already unpublished")
)

// ---------------------------------------------------------------------------
// Marketplace Payload Shapes
// ---------------------------------------------------------------------------

// ConditionCode is the marketplace condition enum
type ConditionCode string

const (
	ConditionNew                ConditionCode = "NEW"
	ConditionNewOther           ConditionCode = "NEW_OTHER"
	ConditionNewWithDefects     ConditionCode = "NEW_WITH_DEFECTS"
	ConditionCertRefurbished    ConditionCode = "CERTIFIED_REFURBISHED"
	ConditionSellerRefurbished  ConditionCode = "SELLER_REFURBISHED"
	ConditionLikeNew            ConditionCode = "LIKE_NEW"
	ConditionUsedExcellent      ConditionCode = "USED_EXCELLENT"
	ConditionUsedVeryGood       ConditionCode = "USED_VERY_GOOD"
	ConditionUsedGood           ConditionCode = "USED_GOOD"
	ConditionUsedAcceptable     ConditionCode = "USED_ACCEPTABLE"
	ConditionForPartsNotWorking ConditionCode = "FOR_PARTS_OR_NOT_WORKING"
)

// PackageWeightUnit is the marketplace weight unit enum
type PackageWeightUnit string

const (
	// WeightUnitPound is the imperial package weight unit
	WeightUnitPound PackageWeightUnit = "POUND"
	// WeightUnitKilogram is the metric package weight unit
	WeightUnitKilogram PackageWeightUnit = "KILOGRAM"
)

// PackageWeight describes the shipping package, present only when the source
// variant declares a weight.
type PackageWeight struct {
	// Value is the weight magnitude
	Value decimal.Decimal
	// Unit is POUND or KILOGRAM
	Unit PackageWeightUnit
}

// InventoryItem is the marketplace-side product descriptor keyed by SKU,
// independent of any offer. Writing it is idempotent (create-or-replace).
type InventoryItem struct {
	// SKU is the inventory-item key
	SKU string
	// Condition is the mapped condition enum value
	Condition ConditionCode
	// Title is the listing title
	Title string
	// Description is the listing description (capped at 2000 characters)
	Description string
	// Brand is the product brand ("Unbranded" when the source vendor is empty)
	Brand string
	// MPN is the manufacturer part number ("Does Not Apply" when unknown)
	MPN string
	// UPC is the identifier code ("Does Not Apply" for placeholder codes)
	UPC string
	// ImageURLs contains up to 12 https image URLs
	ImageURLs []string
	// Quantity is the available quantity (never negative)
	Quantity int
	// PackageWeight is set only when the source variant declares a weight
	PackageWeight *PackageWeight
}

// OfferFormat is the marketplace offer format
type OfferFormat string

// OfferFormatFixedPrice is the only format this engine produces
const OfferFormatFixedPrice OfferFormat = "FIXED_PRICE"

// Offer is the marketplace-side sellable unit referencing an inventory item,
// price and selling policies. Offer creation is NOT idempotent; interrupted
// creates leave orphaned offers that the next attempt must clean up.
type Offer struct {
	// SKU references the inventory item
	SKU string
	// MarketplaceID is the target marketplace (e.g. "EBAY_US")
	MarketplaceID string
	// Format is the offer format
	Format OfferFormat
	// Price is the listing price, formatted to exactly two decimal places
	Price string
	// Currency is the listing currency, fixed by process configuration
	Currency string
	// CategoryID is the marketplace category
	CategoryID string
	// ListingDescription is the description shown on the listing
	ListingDescription string
	// AvailableQuantity is the sellable quantity
	AvailableQuantity int
	// HandlingDays is the dispatch handling time in days. The marketplace
	// wire format carries handling time on the fulfillment policy, not the
	// offer, so adapters omit it; the field feeds logs and audit detail.
	HandlingDays int
	// MerchantLocationKey is the fulfillment location key
	MerchantLocationKey string
	// FulfillmentPolicyID references the seller's fulfillment policy
	FulfillmentPolicyID string
	// PaymentPolicyID references the seller's payment policy
	PaymentPolicyID string
	// ReturnPolicyID references the seller's return policy
	ReturnPolicyID string
}

// OfferSummary is a marketplace offer as returned by ListOffers
type OfferSummary struct {
	// OfferID is the offer's marketplace identifier
	OfferID string
	// SKU is the referenced inventory item
	SKU string
	// ListingID is the published listing ID, empty for unpublished offers
	ListingID string
	// Published indicates whether the offer is live
	Published bool
}

// SellingPolicyIDs holds the seller's business policy identifiers referenced
// by every offer. Treated as effectively static for the duration of a run.
type SellingPolicyIDs struct {
	// FulfillmentPolicyID is the shipping/handling policy
	FulfillmentPolicyID string
	// PaymentPolicyID is the payment policy
	PaymentPolicyID string
	// ReturnPolicyID is the returns policy
	ReturnPolicyID string
}

// MerchantAddress is the fixed merchant address used when creating the
// fulfillment location.
type MerchantAddress struct {
	AddressLine1    string
	City            string
	StateOrProvince string
	PostalCode      string
	Country         string
}

// ---------------------------------------------------------------------------
// Marketplace Port
// ---------------------------------------------------------------------------

// Marketplace defines the port to the secondary sales channel. All calls are
// remote; the orchestrator owns sequencing and rate pacing.
type Marketplace interface {
	// PutInventoryItem creates or replaces the inventory item keyed by its SKU.
	// Safe to retry.
	PutInventoryItem(ctx context.Context, item *InventoryItem) error

	// GetInventoryItem reads an inventory item by SKU
	GetInventoryItem(ctx context.Context, sku string) (*InventoryItem, error)

	// CreateOffer creates a new offer and returns its offer ID. Not idempotent.
	CreateOffer(ctx context.Context, offer *Offer) (string, error)

	// UpdateOffer replaces an existing offer in place, preserving the
	// marketplace-side listing history
	UpdateOffer(ctx context.Context, offerID string, offer *Offer) error

	// PublishOffer publishes an offer and returns the listing ID
	PublishOffer(ctx context.Context, offerID string) (string, error)

	// WithdrawOffer unpublishes an offer. Returns ErrOfferAlreadyUnpublished
	// when the offer is not currently published.
	WithdrawOffer(ctx context.Context, offerID string) error

	// ListOffers returns all offers referencing the SKU
	ListOffers(ctx context.Context, sku string) ([]OfferSummary, error)

	// DeleteOffer deletes an offer by ID
	DeleteOffer(ctx context.Context, offerID string) error

	// EnsureLocation creates the fulfillment location with the merchant
	// address if it does not already exist
	EnsureLocation(ctx context.Context, key string, address MerchantAddress) error

	// GetSellingPolicies reads the seller's business policy IDs
	GetSellingPolicies(ctx context.Context) (*SellingPolicyIDs, error)
}
