package listing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Source Catalog Errors
// ---------------------------------------------------------------------------

var (
	ErrSourceProductNotFound    = errors.New("listing: source product not found")
	ErrSourceRequestFailed      = errors.New("listing: source platform request failed")
	ErrSourceInvalidResponse    = errors.New("listing: invalid source platform response")
	ErrSourceNotConfigured      = errors.New("listing: source platform not configured")
	ErrSourceAuthFailed         = errors.New("listing: source platform authentication failed")
	ErrSourceRateLimited        = errors.New("listing: source platform rate limited")
	ErrProductNotActive         = errors.New("listing: product is not active on the source platform")
	ErrMultiVariantNotSupported = errors.New("listing: multi-variant products are not supported")
	ErrVariantMissingSKU        = errors.New("listing: variant has no SKU")
	ErrNoAvailableQuantity      = errors.New("listing: no available quantity")
	ErrNoImages                 = errors.New("listing: product has no images")
)

// ---------------------------------------------------------------------------
// Source Product Snapshot
// ---------------------------------------------------------------------------

// SourceProductStatus represents the publication state on the source platform
type SourceProductStatus string

const (
	// SourceProductStatusActive indicates the product is published
	SourceProductStatusActive SourceProductStatus = "active"
	// SourceProductStatusDraft indicates the product is unpublished
	SourceProductStatusDraft SourceProductStatus = "draft"
	// SourceProductStatusArchived indicates the product is archived
	SourceProductStatusArchived SourceProductStatus = "archived"
)

// SourceProduct is a read-only snapshot of a product on the source platform,
// including its nested variants and images.
type SourceProduct struct {
	// ID is the product ID on the source platform
	ID string
	// Title is the product title
	Title string
	// BodyHTML is the product description (HTML)
	BodyHTML string
	// Vendor is the brand/vendor field
	Vendor string
	// ProductType is the free-text product type used for category inference
	ProductType string
	// Tags are the product tags
	Tags []string
	// Status is the publication state
	Status SourceProductStatus
	// Variants contains the product variants (this engine lists single-variant products only)
	Variants []SourceVariant
	// Images contains the product images in display order
	Images []SourceImage
}

// SourceVariant is one sellable variant of a source product
type SourceVariant struct {
	// ID is the variant ID on the source platform
	ID string
	// SKU is the stock keeping unit
	SKU string
	// Price is the variant price
	Price decimal.Decimal
	// Quantity is the available inventory quantity (may be negative at the source)
	Quantity int
	// Barcode is the UPC/EAN identifier code, if any
	Barcode string
	// Weight is the shipping weight in WeightUnit (zero when undeclared)
	Weight decimal.Decimal
	// WeightUnit is the source weight unit ("lb", "kg", "g", "oz")
	WeightUnit string
}

// SourceImage is one product image
type SourceImage struct {
	// Src is the image URL
	Src string
}

// IsActive returns true if the product is published on the source platform
func (p *SourceProduct) IsActive() bool {
	return p.Status == SourceProductStatusActive
}

// ---------------------------------------------------------------------------
// SourceCatalog Port
// ---------------------------------------------------------------------------

// SourceCatalog defines the port to the merchant's authoritative catalog.
// The source platform is never written back to.
type SourceCatalog interface {
	// GetProduct fetches one detailed product by ID
	GetProduct(ctx context.Context, id string) (*SourceProduct, error)

	// ListProducts fetches a page of products matching the status filter
	ListProducts(ctx context.Context, status SourceProductStatus, limit int) ([]SourceProduct, error)
}
