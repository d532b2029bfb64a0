package listing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// ListingMapping Tests
// ---------------------------------------------------------------------------

func TestNewListingMapping(t *testing.T) {
	t.Run("valid active mapping", func(t *testing.T) {
		mapping, err := NewListingMapping(
			"9137235099",
			"110554433221",
			"8704219010",
			"CAM-100-U42",
			"Canon PowerShot CAM-100",
			decimal.RequireFromString("129.99"),
			MappingStatusActive,
		)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, mapping.ID)
		assert.Equal(t, "9137235099", mapping.SourceProductID)
		assert.Equal(t, "110554433221", mapping.ListingID)
		assert.Equal(t, "8704219010", mapping.OfferID)
		assert.Equal(t, "CAM-100-U42", mapping.SKU)
		assert.Equal(t, MappingStatusActive, mapping.Status)
		assert.False(t, mapping.CreatedAt.IsZero())
		assert.Equal(t, mapping.CreatedAt, mapping.UpdatedAt)
	})

	t.Run("valid draft mapping", func(t *testing.T) {
		mapping, err := NewListingMapping(
			"9137235099",
			"draft-8704219010",
			"8704219010",
			"CAM-100-U42",
			"Canon PowerShot CAM-100",
			decimal.RequireFromString("129.99"),
			MappingStatusDraft,
		)
		require.NoError(t, err)
		assert.True(t, mapping.IsDraft())
	})

	t.Run("missing source product ID", func(t *testing.T) {
		_, err := NewListingMapping("", "l1", "o1", "SKU-1", "Title", decimal.Zero, MappingStatusActive)
		assert.ErrorIs(t, err, ErrMappingInvalidSourceID)
	})

	t.Run("missing offer ID", func(t *testing.T) {
		_, err := NewListingMapping("p1", "l1", "", "SKU-1", "Title", decimal.Zero, MappingStatusActive)
		assert.ErrorIs(t, err, ErrMappingInvalidOfferID)
	})

	t.Run("missing SKU", func(t *testing.T) {
		_, err := NewListingMapping("p1", "l1", "o1", "", "Title", decimal.Zero, MappingStatusActive)
		assert.ErrorIs(t, err, ErrMappingInvalidSKU)
	})

	t.Run("cannot create in ended state", func(t *testing.T) {
		_, err := NewListingMapping("p1", "l1", "o1", "SKU-1", "Title", decimal.Zero, MappingStatusEnded)
		assert.ErrorIs(t, err, ErrMappingInvalidStatus)
	})
}

func TestListingMapping_End(t *testing.T) {
	t.Run("active mapping ends", func(t *testing.T) {
		mapping, err := NewListingMapping("p1", "l1", "o1", "SKU-1", "Title", decimal.Zero, MappingStatusActive)
		require.NoError(t, err)

		require.NoError(t, mapping.End())
		assert.Equal(t, MappingStatusEnded, mapping.Status)
	})

	t.Run("draft mapping ends", func(t *testing.T) {
		mapping, err := NewListingMapping("p1", "draft-o1", "o1", "SKU-1", "Title", decimal.Zero, MappingStatusDraft)
		require.NoError(t, err)

		require.NoError(t, mapping.End())
		assert.Equal(t, MappingStatusEnded, mapping.Status)
	})

	t.Run("ending twice is rejected", func(t *testing.T) {
		mapping, err := NewListingMapping("p1", "l1", "o1", "SKU-1", "Title", decimal.Zero, MappingStatusActive)
		require.NoError(t, err)

		require.NoError(t, mapping.End())
		assert.ErrorIs(t, mapping.End(), ErrMappingAlreadyEnded)
		// Terminal state never reverts
		assert.Equal(t, MappingStatusEnded, mapping.Status)
	})
}

func TestListingMapping_RefreshDisplay(t *testing.T) {
	mapping, err := NewListingMapping("p1", "l1", "o1", "SKU-1", "Old Title", decimal.RequireFromString("10.00"), MappingStatusActive)
	require.NoError(t, err)

	mapping.RefreshDisplay("New Title", decimal.RequireFromString("12.50"))

	assert.Equal(t, "New Title", mapping.Title)
	assert.True(t, decimal.RequireFromString("12.50").Equal(mapping.Price))
	assert.False(t, mapping.UpdatedAt.Before(mapping.CreatedAt))
}

func TestMappingStatus(t *testing.T) {
	assert.True(t, MappingStatusActive.IsValid())
	assert.True(t, MappingStatusDraft.IsValid())
	assert.True(t, MappingStatusEnded.IsValid())
	assert.False(t, MappingStatus("LIVE").IsValid())

	assert.True(t, MappingStatusEnded.IsTerminal())
	assert.False(t, MappingStatusActive.IsTerminal())
	assert.False(t, MappingStatusDraft.IsTerminal())
}

func TestSourceProduct_IsActive(t *testing.T) {
	assert.True(t, (&SourceProduct{Status: SourceProductStatusActive}).IsActive())
	assert.False(t, (&SourceProduct{Status: SourceProductStatusDraft}).IsActive())
	assert.False(t, (&SourceProduct{Status: SourceProductStatusArchived}).IsActive())
}
