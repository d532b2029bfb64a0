package listing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/listbridge/backend/internal/domain/listing"
)

func testProduct() *listing.SourceProduct {
	return &listing.SourceProduct{
		ID:          "9137235099",
		Title:       "Canon PowerShot CAM-100",
		BodyHTML:    "<p>Compact digital camera.</p>",
		Vendor:      "Canon",
		ProductType: "Digital Camera",
		Tags:        []string{"camera", "compact"},
		Status:      listing.SourceProductStatusActive,
		Variants: []listing.SourceVariant{
			{
				ID:         "41",
				SKU:        "CAM-100-U42",
				Price:      decimal.RequireFromString("129.99"),
				Quantity:   3,
				Barcode:    "0123456789012",
				Weight:     decimal.RequireFromString("1.2"),
				WeightUnit: "lb",
			},
		},
		Images: []listing.SourceImage{
			{Src: "https://cdn.example.com/cam-100-front.jpg"},
			{Src: "http://cdn.example.com/cam-100-back.jpg"},
		},
	}
}

// ---------------------------------------------------------------------------
// Rule Resolution Tests
// ---------------------------------------------------------------------------

func TestAttributeResolver_Resolve(t *testing.T) {
	product := testProduct()

	t.Run("source field rule reads nested path", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{
			DefaultCategory: {FieldIdentifierCode: SourceFieldRule("variants[0].barcode")},
		})
		assert.Equal(t, "0123456789012", r.Resolve(DefaultCategory, FieldIdentifierCode, product))
	})

	t.Run("source field rule reads top level field", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{
			DefaultCategory: {FieldTitle: SourceFieldRule("title")},
		})
		assert.Equal(t, "Canon PowerShot CAM-100", r.Resolve(DefaultCategory, FieldTitle, product))
	})

	t.Run("source field rule reads array element field", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{
			DefaultCategory: {"image": SourceFieldRule("images[1].src")},
		})
		assert.Equal(t, "http://cdn.example.com/cam-100-back.jpg", r.Resolve(DefaultCategory, "image", product))
	})

	t.Run("missing source field degrades to empty string", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{
			DefaultCategory: {FieldTitle: SourceFieldRule("nonexistent.field")},
		})
		assert.Equal(t, "", r.Resolve(DefaultCategory, FieldTitle, product))
	})

	t.Run("out of range index degrades to empty string", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{
			DefaultCategory: {FieldTitle: SourceFieldRule("variants[5].sku")},
		})
		assert.Equal(t, "", r.Resolve(DefaultCategory, FieldTitle, product))
	})

	t.Run("constant rule yields fixed value", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{
			DefaultCategory: {FieldCondition: ConstantRule("Used - Excellent")},
		})
		assert.Equal(t, "Used - Excellent", r.Resolve(DefaultCategory, FieldCondition, product))
	})

	t.Run("formula rule passes expression through unevaluated", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{
			DefaultCategory: {FieldTitle: FormulaRule(`CONCAT(title, " | ", vendor)`)},
		})
		assert.Equal(t, `CONCAT(title, " | ", vendor)`, r.Resolve(DefaultCategory, FieldTitle, product))
	})

	t.Run("edit in grid rule yields empty string", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{
			DefaultCategory: {FieldCondition: EditInGridRule()},
		})
		assert.Equal(t, "", r.Resolve(DefaultCategory, FieldCondition, product))
	})

	t.Run("absence of a rule yields empty string", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{})
		assert.Equal(t, "", r.Resolve(DefaultCategory, FieldCondition, product))
	})

	t.Run("category rule wins over default rule", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{
			DefaultCategory: {FieldCondition: ConstantRule("default")},
			"31388":         {FieldCondition: ConstantRule("category-specific")},
		})
		assert.Equal(t, "category-specific", r.Resolve("31388", FieldCondition, product))
		assert.Equal(t, "default", r.Resolve("177", FieldCondition, product))
	})
}

// ---------------------------------------------------------------------------
// Category Fallback Tests
// ---------------------------------------------------------------------------

func TestInferCategory(t *testing.T) {
	tests := []struct {
		productType string
		wantID      string
	}{
		{"Digital Camera", "31388"},
		{"camera accessories", "31388"},
		{"Laptop", "177"},
		{"Gaming Laptop Computers", "177"},
		{"Cell Phone", "9355"},
		{"Tablet", "171485"},
		{"Wrist Watch", "31387"},
		{"", "293"},
		{"Something Unrecognizable", "293"},
	}

	for _, tt := range tests {
		t.Run(tt.productType, func(t *testing.T) {
			assert.Equal(t, tt.wantID, InferCategory(tt.productType).ID)
		})
	}

	t.Run("fallback is deterministic", func(t *testing.T) {
		first := InferCategory("camera lens kit")
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, InferCategory("camera lens kit"))
		}
	})
}

func TestAttributeResolver_ResolveAll(t *testing.T) {
	product := testProduct()

	t.Run("fallback category when no explicit rule", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{})
		attrs := r.ResolveAll(product, 3)

		assert.Equal(t, "31388", attrs.CategoryID)
		assert.Equal(t, "Digital Cameras", attrs.CategoryName)
		assert.Equal(t, 3, attrs.HandlingDays)
		assert.Empty(t, attrs.Condition)
	})

	t.Run("explicit category rule overrides fallback", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{
			DefaultCategory: {FieldCategory: ConstantRule("625")},
		})
		attrs := r.ResolveAll(product, 3)

		assert.Equal(t, "625", attrs.CategoryID)
	})

	t.Run("handling time rule parses into days", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{
			DefaultCategory: {FieldHandlingTime: ConstantRule("5")},
		})
		attrs := r.ResolveAll(product, 3)

		assert.Equal(t, 5, attrs.HandlingDays)
	})

	t.Run("unparseable handling time keeps default", func(t *testing.T) {
		r := NewAttributeResolver(RuleSet{
			DefaultCategory: {FieldHandlingTime: ConstantRule("a week")},
		})
		attrs := r.ResolveAll(product, 3)

		assert.Equal(t, 3, attrs.HandlingDays)
	})
}
