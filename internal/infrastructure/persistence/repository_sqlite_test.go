package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/listbridge/backend/internal/domain/listing"
)

// newSQLiteDatabase opens an in-memory database and applies the schema.
// Round-trip tests run against real SQL here; Postgres-specific paths
// (ILIKE search) keep their sqlmock coverage.
func newSQLiteDatabase(t *testing.T) *Database {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := &Database{DB: gormDB}
	require.NoError(t, db.Migrate())

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func newStoredMapping(t *testing.T, sourceProductID string) *listing.ListingMapping {
	t.Helper()

	mapping, err := listing.NewListingMapping(
		sourceProductID,
		"listing-"+sourceProductID,
		"offer-"+sourceProductID,
		"SKU-"+sourceProductID,
		"Canon PowerShot",
		decimal.NewFromFloat(129.99),
		listing.MappingStatusActive,
	)
	require.NoError(t, err)
	return mapping
}

func TestGormListingMappingRepository_RoundTrip(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormListingMappingRepository(db.DB)
	ctx := context.Background()

	mapping := newStoredMapping(t, "9001")
	require.NoError(t, repo.Insert(ctx, mapping))

	t.Run("finds stored mapping by source product", func(t *testing.T) {
		found, err := repo.FindBySourceProduct(ctx, "9001")
		require.NoError(t, err)

		assert.Equal(t, mapping.ID, found.ID)
		assert.Equal(t, "listing-9001", found.ListingID)
		assert.Equal(t, "offer-9001", found.OfferID)
		assert.Equal(t, "SKU-9001", found.SKU)
		assert.Equal(t, listing.MappingStatusActive, found.Status)
		assert.True(t, found.Price.Equal(decimal.NewFromFloat(129.99)))
	})

	t.Run("reports existence", func(t *testing.T) {
		exists, err := repo.ExistsBySourceProduct(ctx, "9001")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsBySourceProduct(ctx, "no-such-product")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("unmapped product yields not found", func(t *testing.T) {
		_, err := repo.FindBySourceProduct(ctx, "no-such-product")
		assert.ErrorIs(t, err, listing.ErrMappingNotFound)
	})

	t.Run("second mapping for the same product is rejected", func(t *testing.T) {
		dup := newStoredMapping(t, "9001")
		err := repo.Insert(ctx, dup)
		assert.ErrorIs(t, err, listing.ErrMappingAlreadyExists)
	})

	t.Run("update persists lifecycle and display changes", func(t *testing.T) {
		mapping.RefreshDisplay("Canon PowerShot G7X", decimal.NewFromFloat(119.99))
		require.NoError(t, mapping.End())
		require.NoError(t, repo.Update(ctx, mapping))

		found, err := repo.FindBySourceProduct(ctx, "9001")
		require.NoError(t, err)
		assert.Equal(t, "Canon PowerShot G7X", found.Title)
		assert.True(t, found.Price.Equal(decimal.NewFromFloat(119.99)))
		assert.Equal(t, listing.MappingStatusEnded, found.Status)
	})

	t.Run("updating an unknown mapping yields not found", func(t *testing.T) {
		ghost := newStoredMapping(t, "9002")
		err := repo.Update(ctx, ghost)
		assert.ErrorIs(t, err, listing.ErrMappingNotFound)
	})
}

func TestGormListingMappingRepository_FilteredQueries(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormListingMappingRepository(db.DB)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, seed := range []struct {
		productID string
		status    listing.MappingStatus
	}{
		{"101", listing.MappingStatusActive},
		{"102", listing.MappingStatusActive},
		{"103", listing.MappingStatusDraft},
	} {
		mapping := newStoredMapping(t, seed.productID)
		mapping.Status = seed.status
		// Distinct timestamps make the created_at DESC ordering deterministic
		mapping.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Insert(ctx, mapping))
	}

	t.Run("filters by status", func(t *testing.T) {
		status := listing.MappingStatusActive
		mappings, err := repo.FindAll(ctx, listing.MappingFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, mappings, 2)
		for _, m := range mappings {
			assert.Equal(t, listing.MappingStatusActive, m.Status)
		}

		count, err := repo.Count(ctx, listing.MappingFilter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("paginates newest first", func(t *testing.T) {
		mappings, err := repo.FindAll(ctx, listing.MappingFilter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, mappings, 2)
		assert.Equal(t, "103", mappings[0].SourceProductID)
		assert.Equal(t, "102", mappings[1].SourceProductID)

		mappings, err = repo.FindAll(ctx, listing.MappingFilter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, mappings, 1)
		assert.Equal(t, "101", mappings[0].SourceProductID)
	})

	t.Run("count ignores pagination", func(t *testing.T) {
		count, err := repo.Count(ctx, listing.MappingFilter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestGormSyncLogRepository_RoundTrip(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormSyncLogRepository(db.DB)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, detail := range []string{"created", "updated", "ended"} {
		entry := listing.NewSyncLogEntry(
			listing.SyncDirectionOutbound, "product", "201", listing.SyncOutcomeSuccess, detail,
		)
		entry.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Append(ctx, entry))
	}

	t.Run("recent returns newest first", func(t *testing.T) {
		entries, err := repo.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "ended", entries[0].Detail)
		assert.Equal(t, "updated", entries[1].Detail)
		assert.Equal(t, "created", entries[2].Detail)
		assert.Equal(t, listing.SyncDirectionOutbound, entries[0].Direction)
		assert.Equal(t, listing.SyncOutcomeSuccess, entries[0].Status)
	})

	t.Run("recent honors the limit", func(t *testing.T) {
		entries, err := repo.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "ended", entries[0].Detail)
	})
}
