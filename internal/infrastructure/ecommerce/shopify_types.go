package ecommerce

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/listbridge/backend/internal/domain/listing"
)

// ---------------------------------------------------------------------------
// Shopify Admin REST API Payloads
// ---------------------------------------------------------------------------

// ShopifyProductResponse is the envelope of GET /products/{id}.json
type ShopifyProductResponse struct {
	Product *ShopifyProduct `json:"product"`
}

// ShopifyProductsResponse is the envelope of GET /products.json
type ShopifyProductsResponse struct {
	Products []ShopifyProduct `json:"products"`
}

// ShopifyErrorResponse is the error envelope returned on non-2xx responses
type ShopifyErrorResponse struct {
	Errors any `json:"errors"`
}

// ShopifyProduct is a product as returned by the Admin REST API
type ShopifyProduct struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	BodyHTML    string           `json:"body_html"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Tags        string           `json:"tags"`
	Status      string           `json:"status"`
	Variants    []ShopifyVariant `json:"variants"`
	Images      []ShopifyImage   `json:"images"`
}

// ShopifyVariant is one sellable variant of a product
type ShopifyVariant struct {
	ID                int64   `json:"id"`
	SKU               string  `json:"sku"`
	Price             string  `json:"price"`
	InventoryQuantity int     `json:"inventory_quantity"`
	Barcode           string  `json:"barcode"`
	Weight            float64 `json:"weight"`
	WeightUnit        string  `json:"weight_unit"`
}

// ShopifyImage is one product image
type ShopifyImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

// ---------------------------------------------------------------------------
// Domain Conversion
// ---------------------------------------------------------------------------

// ToDomain converts the API payload to a domain SourceProduct
func (p *ShopifyProduct) ToDomain() *listing.SourceProduct {
	product := &listing.SourceProduct{
		ID:          formatInt64(p.ID),
		Title:       p.Title,
		BodyHTML:    p.BodyHTML,
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Tags:        splitTags(p.Tags),
		Status:      listing.SourceProductStatus(p.Status),
		Variants:    make([]listing.SourceVariant, 0, len(p.Variants)),
		Images:      make([]listing.SourceImage, 0, len(p.Images)),
	}

	for _, v := range p.Variants {
		product.Variants = append(product.Variants, listing.SourceVariant{
			ID:         formatInt64(v.ID),
			SKU:        v.SKU,
			Price:      ParseDecimal(v.Price),
			Quantity:   v.InventoryQuantity,
			Barcode:    v.Barcode,
			Weight:     decimal.NewFromFloat(v.Weight),
			WeightUnit: v.WeightUnit,
		})
	}

	for _, img := range p.Images {
		product.Images = append(product.Images, listing.SourceImage{Src: img.Src})
	}

	return product
}

// ParseDecimal parses a decimal string, returning zero for empty or malformed values
func ParseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// formatInt64 renders a numeric platform ID as the string the domain carries
func formatInt64(id int64) string {
	return strconv.FormatInt(id, 10)
}

// splitTags splits Shopify's comma-separated tag string into a slice
func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
