package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/listbridge/backend/internal/domain/listing"
)

// ListingMappingModel is the persistence model for the ListingMapping domain entity.
type ListingMappingModel struct {
	ID              uuid.UUID             `gorm:"type:uuid;primary_key"`
	SourceProductID string                `gorm:"type:varchar(64);not null;uniqueIndex:idx_listing_mapping_source_product"`
	ListingID       string                `gorm:"type:varchar(64);not null"`
	OfferID         string                `gorm:"type:varchar(64);not null;index:idx_listing_mapping_offer"`
	SKU             string                `gorm:"type:varchar(100);not null;index:idx_listing_mapping_sku"`
	Status          listing.MappingStatus `gorm:"type:varchar(20);not null;index:idx_listing_mapping_status"`
	Title           string                `gorm:"type:varchar(255)"`
	Price           decimal.Decimal       `gorm:"type:numeric(12,2);not null"`
	CreatedAt       time.Time             `gorm:"not null"`
	UpdatedAt       time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ListingMappingModel) TableName() string {
	return "listing_mappings"
}

// ToDomain converts the persistence model to a domain ListingMapping entity.
func (m *ListingMappingModel) ToDomain() *listing.ListingMapping {
	return &listing.ListingMapping{
		ID:              m.ID,
		SourceProductID: m.SourceProductID,
		ListingID:       m.ListingID,
		OfferID:         m.OfferID,
		SKU:             m.SKU,
		Status:          m.Status,
		Title:           m.Title,
		Price:           m.Price,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ListingMapping entity.
func (m *ListingMappingModel) FromDomain(lm *listing.ListingMapping) {
	m.ID = lm.ID
	m.SourceProductID = lm.SourceProductID
	m.ListingID = lm.ListingID
	m.OfferID = lm.OfferID
	m.SKU = lm.SKU
	m.Status = lm.Status
	m.Title = lm.Title
	m.Price = lm.Price
	m.CreatedAt = lm.CreatedAt
	m.UpdatedAt = lm.UpdatedAt
}

// ListingMappingModelFromDomain creates a new persistence model from a domain ListingMapping entity.
func ListingMappingModelFromDomain(lm *listing.ListingMapping) *ListingMappingModel {
	m := &ListingMappingModel{}
	m.FromDomain(lm)
	return m
}

// SyncLogModel is the persistence model for the SyncLogEntry domain record.
// Rows are append-only; nothing updates or deletes them.
type SyncLogModel struct {
	ID         uuid.UUID             `gorm:"type:uuid;primary_key"`
	Direction  listing.SyncDirection `gorm:"type:varchar(10);not null"`
	EntityType string                `gorm:"type:varchar(32);not null;index:idx_sync_log_entity,priority:1"`
	EntityID   string                `gorm:"type:varchar(64);not null;index:idx_sync_log_entity,priority:2"`
	Status     listing.SyncOutcome   `gorm:"type:varchar(10);not null"`
	Detail     string                `gorm:"type:text"`
	CreatedAt  time.Time             `gorm:"not null;index:idx_sync_log_created_at"`
}

// TableName returns the table name for GORM
func (SyncLogModel) TableName() string {
	return "sync_logs"
}

// ToDomain converts the persistence model to a domain SyncLogEntry.
func (m *SyncLogModel) ToDomain() *listing.SyncLogEntry {
	return &listing.SyncLogEntry{
		ID:         m.ID,
		Direction:  m.Direction,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Status:     m.Status,
		Detail:     m.Detail,
		CreatedAt:  m.CreatedAt,
	}
}

// SyncLogModelFromDomain creates a new persistence model from a domain SyncLogEntry.
func SyncLogModelFromDomain(e *listing.SyncLogEntry) *SyncLogModel {
	return &SyncLogModel{
		ID:         e.ID,
		Direction:  e.Direction,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Status:     e.Status,
		Detail:     e.Detail,
		CreatedAt:  e.CreatedAt,
	}
}
