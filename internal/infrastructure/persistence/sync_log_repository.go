package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/listbridge/backend/internal/domain/listing"
	"github.com/listbridge/backend/internal/infrastructure/persistence/models"
)

// GormSyncLogRepository implements the sync log ports using GORM.
// The table is append-only; this repository never updates or deletes rows.
type GormSyncLogRepository struct {
	db *gorm.DB
}

// NewGormSyncLogRepository creates a new GormSyncLogRepository
func NewGormSyncLogRepository(db *gorm.DB) *GormSyncLogRepository {
	return &GormSyncLogRepository{db: db}
}

// Append persists a new audit entry
func (r *GormSyncLogRepository) Append(ctx context.Context, entry *listing.SyncLogEntry) error {
	model := models.SyncLogModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// Recent returns the most recent entries, newest first
func (r *GormSyncLogRepository) Recent(ctx context.Context, limit int) ([]listing.SyncLogEntry, error) {
	var logModels []models.SyncLogModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logModels).Error; err != nil {
		return nil, err
	}

	entries := make([]listing.SyncLogEntry, len(logModels))
	for i, model := range logModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Ensure GormSyncLogRepository implements the sync log ports
var (
	_ listing.SyncLogWriter = (*GormSyncLogRepository)(nil)
	_ listing.SyncLogReader = (*GormSyncLogRepository)(nil)
)
