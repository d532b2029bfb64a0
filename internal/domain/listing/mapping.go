package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Mapping Errors
// ---------------------------------------------------------------------------

var (
	ErrMappingNotFound        = errors.New("listing: mapping not found")
	ErrMappingAlreadyExists   = errors.New("listing: product is already mapped to a marketplace listing")
	ErrMappingAlreadyEnded    = errors.New("listing: listing has already been ended")
	ErrMappingInvalidSourceID = errors.New("listing: invalid source product ID")
	ErrMappingInvalidOfferID  = errors.New("listing: invalid marketplace offer ID")
	ErrMappingInvalidSKU      = errors.New("listing: invalid SKU")
	ErrMappingInvalidStatus   = errors.New("listing: invalid mapping status")
)

// ---------------------------------------------------------------------------
// MappingStatus
// ---------------------------------------------------------------------------

// MappingStatus represents the lifecycle state of a marketplace listing.
// The status only ever advances forward: ACTIVE or DRAFT on creation,
// ENDED as the terminal state. Nothing in this engine reverts a status.
type MappingStatus string

const (
	// MappingStatusActive indicates the listing is published and live
	MappingStatusActive MappingStatus = "ACTIVE"
	// MappingStatusDraft indicates an offer exists but was never published
	MappingStatusDraft MappingStatus = "DRAFT"
	// MappingStatusEnded indicates the listing was withdrawn (terminal)
	MappingStatusEnded MappingStatus = "ENDED"
)

// IsValid returns true if the status is valid
func (s MappingStatus) IsValid() bool {
	switch s {
	case MappingStatusActive, MappingStatusDraft, MappingStatusEnded:
		return true
	default:
		return false
	}
}

// String returns the string representation of MappingStatus
func (s MappingStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition is allowed from this status
func (s MappingStatus) IsTerminal() bool {
	return s == MappingStatusEnded
}

// ---------------------------------------------------------------------------
// ListingMapping Entity
// ---------------------------------------------------------------------------

// ListingMapping represents the persisted association between one source
// product and its marketplace listing. There is at most one mapping per
// source product; mappings are never deleted, only advanced to ENDED.
//
// Title, Price and SKU are cached display fields so the trigger surface can
// list mappings without re-fetching the source catalog.
type ListingMapping struct {
	// ID is the unique identifier of this mapping
	ID uuid.UUID
	// SourceProductID is the product ID on the source platform
	SourceProductID string
	// ListingID is the listing ID on the marketplace
	// (synthesized as "draft-"+OfferID for unpublished drafts)
	ListingID string
	// OfferID is the marketplace offer backing the listing
	OfferID string
	// SKU is the marketplace inventory-item key
	SKU string
	// Status is the current lifecycle state
	Status MappingStatus
	// Title is the cached product title at last sync
	Title string
	// Price is the cached listing price at last sync
	Price decimal.Decimal
	// CreatedAt is when this mapping was created
	CreatedAt time.Time
	// UpdatedAt is when this mapping was last updated
	UpdatedAt time.Time
}

// NewListingMapping creates a mapping for a freshly created listing.
// Status must be ACTIVE or DRAFT; a mapping is only ever created after a
// successful marketplace create sequence.
func NewListingMapping(sourceProductID, listingID, offerID, sku, title string, price decimal.Decimal, status MappingStatus) (*ListingMapping, error) {
	if sourceProductID == "" {
		return nil, ErrMappingInvalidSourceID
	}
	if offerID == "" {
		return nil, ErrMappingInvalidOfferID
	}
	if sku == "" {
		return nil, ErrMappingInvalidSKU
	}
	if status != MappingStatusActive && status != MappingStatusDraft {
		return nil, ErrMappingInvalidStatus
	}

	now := time.Now()
	return &ListingMapping{
		ID:              uuid.New(),
		SourceProductID: sourceProductID,
		ListingID:       listingID,
		OfferID:         offerID,
		SKU:             sku,
		Status:          status,
		Title:           title,
		Price:           price,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Validate validates the mapping
func (m *ListingMapping) Validate() error {
	if m.SourceProductID == "" {
		return ErrMappingInvalidSourceID
	}
	if m.SKU == "" {
		return ErrMappingInvalidSKU
	}
	if !m.Status.IsValid() {
		return ErrMappingInvalidStatus
	}
	return nil
}

// RefreshDisplay updates the cached display fields after a successful update
func (m *ListingMapping) RefreshDisplay(title string, price decimal.Decimal) {
	m.Title = title
	m.Price = price
	m.UpdatedAt = time.Now()
}

// End transitions the mapping to its terminal ENDED state.
// Ending an already-ended mapping is rejected; re-listing a product after
// ending requires intervention outside this engine.
func (m *ListingMapping) End() error {
	if m.Status.IsTerminal() {
		return ErrMappingAlreadyEnded
	}
	m.Status = MappingStatusEnded
	m.UpdatedAt = time.Now()
	return nil
}

// IsDraft returns true if the listing was created without publishing
func (m *ListingMapping) IsDraft() bool {
	return m.Status == MappingStatusDraft
}

// ---------------------------------------------------------------------------
// MappingRepository Interface
// ---------------------------------------------------------------------------

// MappingFilter defines filter criteria for listing mappings
type MappingFilter struct {
	// Status filters by lifecycle state (optional)
	Status *MappingStatus
	// SearchKeyword searches in cached titles and SKUs (optional)
	SearchKeyword string
	// Page number (1-indexed)
	Page int
	// Page size
	PageSize int
}

// MappingRepository defines the persistence port for listing mappings
type MappingRepository interface {
	// FindBySourceProduct finds the mapping for a source product.
	// Returns ErrMappingNotFound if the product is unmapped.
	FindBySourceProduct(ctx context.Context, sourceProductID string) (*ListingMapping, error)

	// ExistsBySourceProduct checks whether a source product is already mapped
	ExistsBySourceProduct(ctx context.Context, sourceProductID string) (bool, error)

	// Insert persists a new mapping.
	// Returns ErrMappingAlreadyExists when the source product is already mapped.
	Insert(ctx context.Context, mapping *ListingMapping) error

	// Update persists changes to an existing mapping
	Update(ctx context.Context, mapping *ListingMapping) error

	// FindAll finds mappings matching the filter
	FindAll(ctx context.Context, filter MappingFilter) ([]ListingMapping, error)

	// Count counts mappings matching the filter
	Count(ctx context.Context, filter MappingFilter) (int64, error)
}
