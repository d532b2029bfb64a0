package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/listbridge/backend/internal/domain/listing"
	"github.com/listbridge/backend/internal/infrastructure/persistence/models"
)

// GormListingMappingRepository implements listing.MappingRepository using GORM
type GormListingMappingRepository struct {
	db *gorm.DB
}

// NewGormListingMappingRepository creates a new GormListingMappingRepository
func NewGormListingMappingRepository(db *gorm.DB) *GormListingMappingRepository {
	return &GormListingMappingRepository{db: db}
}

// FindBySourceProduct finds the mapping for a source product
func (r *GormListingMappingRepository) FindBySourceProduct(ctx context.Context, sourceProductID string) (*listing.ListingMapping, error) {
	var model models.ListingMappingModel
	if err := r.db.WithContext(ctx).First(&model, "source_product_id = ?", sourceProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, listing.ErrMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsBySourceProduct checks whether a source product is already mapped
func (r *GormListingMappingRepository) ExistsBySourceProduct(ctx context.Context, sourceProductID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ListingMappingModel{}).
		Where("source_product_id = ?", sourceProductID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert persists a new mapping. The unique index on source_product_id is the
// authoritative guard against double-listing a product.
func (r *GormListingMappingRepository) Insert(ctx context.Context, mapping *listing.ListingMapping) error {
	model := models.ListingMappingModelFromDomain(mapping)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return listing.ErrMappingAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing mapping
func (r *GormListingMappingRepository) Update(ctx context.Context, mapping *listing.ListingMapping) error {
	model := models.ListingMappingModelFromDomain(mapping)
	result := r.db.WithContext(ctx).
		Model(&models.ListingMappingModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"listing_id": model.ListingID,
			"offer_id":   model.OfferID,
			"sku":        model.SKU,
			"status":     model.Status,
			"title":      model.Title,
			"price":      model.Price,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return listing.ErrMappingNotFound
	}
	return nil
}

// FindAll finds mappings matching the filter
func (r *GormListingMappingRepository) FindAll(ctx context.Context, filter listing.MappingFilter) ([]listing.ListingMapping, error) {
	var mappingModels []models.ListingMappingModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ListingMappingModel{}), filter)

	if err := query.Find(&mappingModels).Error; err != nil {
		return nil, err
	}

	mappings := make([]listing.ListingMapping, len(mappingModels))
	for i, model := range mappingModels {
		mappings[i] = *model.ToDomain()
	}
	return mappings, nil
}

// Count counts mappings matching the filter
func (r *GormListingMappingRepository) Count(ctx context.Context, filter listing.MappingFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ListingMappingModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormListingMappingRepository) applyFilter(query *gorm.DB, filter listing.MappingFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query.Order("created_at DESC")
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormListingMappingRepository) applyFilterWithoutPagination(query *gorm.DB, filter listing.MappingFilter) *gorm.DB {
	if filter.Status != nil && filter.Status.IsValid() {
		query = query.Where("status = ?", *filter.Status)
	}

	// Search in cached titles and SKUs (escape LIKE special characters)
	if filter.SearchKeyword != "" {
		searchPattern := "%" + escapeLikePattern(filter.SearchKeyword) + "%"
		query = query.Where("title ILIKE ? OR sku ILIKE ?", searchPattern, searchPattern)
	}

	return query
}

// Ensure GormListingMappingRepository implements listing.MappingRepository
var _ listing.MappingRepository = (*GormListingMappingRepository)(nil)

// escapeLikePattern escapes special characters in LIKE patterns
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
