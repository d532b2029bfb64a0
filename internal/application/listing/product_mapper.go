package listing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/listbridge/backend/internal/domain/listing"
)

// ---------------------------------------------------------------------------
// Marketplace Field Constraints
// ---------------------------------------------------------------------------

const (
	// maxDescriptionLength is the marketplace cap on listing descriptions
	maxDescriptionLength = 2000
	// descriptionEllipsis marks a truncated description
	descriptionEllipsis = "..."
	// maxImages is the marketplace cap on listing images
	maxImages = 12
	// notApplicable is the marketplace sentinel for absent product identifiers
	notApplicable = "Does Not Apply"
	// defaultBrand is used when the source vendor field is empty
	defaultBrand = "Unbranded"
)

// mpnSuffixPattern strips the trailing "-U<digits>" suffix from SKUs. The
// suffix encodes an internal serial/condition marker, not manufacturer data.
var mpnSuffixPattern = regexp.MustCompile(`-U\d+$`)

// conditionTable maps source condition identifiers to the marketplace
// condition enum. Unknown identifiers resolve to the conservative
// "used, excellent" default rather than erroring.
var conditionTable = map[string]listing.ConditionCode{
	"new":                      listing.ConditionNew,
	"new other":                listing.ConditionNewOther,
	"new with defects":         listing.ConditionNewWithDefects,
	"refurbished":              listing.ConditionSellerRefurbished,
	"seller refurbished":       listing.ConditionSellerRefurbished,
	"certified refurbished":    listing.ConditionCertRefurbished,
	"like new":                 listing.ConditionLikeNew,
	"excellent":                listing.ConditionUsedExcellent,
	"used - excellent":         listing.ConditionUsedExcellent,
	"very good":                listing.ConditionUsedVeryGood,
	"used - very good":         listing.ConditionUsedVeryGood,
	"good":                     listing.ConditionUsedGood,
	"used - good":              listing.ConditionUsedGood,
	"acceptable":               listing.ConditionUsedAcceptable,
	"used - acceptable":        listing.ConditionUsedAcceptable,
	"for parts":                listing.ConditionForPartsNotWorking,
	"for parts or not working": listing.ConditionForPartsNotWorking,
}

// defaultCondition is the conservative fallback for unmapped identifiers
const defaultCondition = listing.ConditionUsedExcellent

// ---------------------------------------------------------------------------
// ProductMapper
// ---------------------------------------------------------------------------

// MapperSettings fixes the process-level marketplace parameters
type MapperSettings struct {
	// MarketplaceID is the target marketplace (e.g. "EBAY_US")
	MarketplaceID string
	// Currency is the listing currency, fixed per process
	Currency string
	// MerchantLocationKey is the fulfillment location key
	MerchantLocationKey string
}

// ProductMapper is the pure transform from a source product snapshot to the
// marketplace Inventory Item and Offer payloads. Deterministic given its
// inputs: identical (product, variant, attributes, settings, policies)
// always yields byte-identical output. Selling policies must already be
// fetched by the caller; the mapper performs no I/O.
type ProductMapper struct {
	settings MapperSettings
}

// NewProductMapper creates a mapper with the given process settings
func NewProductMapper(settings MapperSettings) *ProductMapper {
	return &ProductMapper{settings: settings}
}

// Map builds the inventory item and offer for one product variant
func (m *ProductMapper) Map(
	product *listing.SourceProduct,
	variant *listing.SourceVariant,
	attrs ResolvedAttributeSet,
	policies listing.SellingPolicyIDs,
) (*listing.InventoryItem, *listing.Offer) {
	title := attrs.Title
	if title == "" {
		title = product.Title
	}

	description := attrs.Description
	if description == "" {
		description = product.BodyHTML
	}
	description = truncateDescription(description)

	item := &listing.InventoryItem{
		SKU:           variant.SKU,
		Condition:     mapCondition(attrs.Condition),
		Title:         title,
		Description:   description,
		Brand:         mapBrand(product.Vendor),
		MPN:           deriveMPN(variant.SKU),
		UPC:           mapIdentifierCode(attrs.IdentifierCode, variant.Barcode),
		ImageURLs:     normalizeImages(product.Images),
		Quantity:      floorQuantity(variant.Quantity),
		PackageWeight: mapPackageWeight(variant),
	}

	offer := &listing.Offer{
		SKU:                 variant.SKU,
		MarketplaceID:       m.settings.MarketplaceID,
		Format:              listing.OfferFormatFixedPrice,
		Price:               variant.Price.StringFixed(2),
		Currency:            m.settings.Currency,
		CategoryID:          attrs.CategoryID,
		ListingDescription:  description,
		AvailableQuantity:   item.Quantity,
		HandlingDays:        attrs.HandlingDays,
		MerchantLocationKey: m.settings.MerchantLocationKey,
		FulfillmentPolicyID: policies.FulfillmentPolicyID,
		PaymentPolicyID:     policies.PaymentPolicyID,
		ReturnPolicyID:      policies.ReturnPolicyID,
	}

	return item, offer
}

// ---------------------------------------------------------------------------
// Field Mapping Rules
// ---------------------------------------------------------------------------

// truncateDescription caps the description at the marketplace limit,
// replacing the tail with a 3-character ellipsis marker. The limit counts
// characters, so the cut always lands on a rune boundary.
func truncateDescription(description string) string {
	if utf8.RuneCountInString(description) <= maxDescriptionLength {
		return description
	}
	runes := []rune(description)
	return string(runes[:maxDescriptionLength-len(descriptionEllipsis)]) + descriptionEllipsis
}

// normalizeImages drops blank URLs, forces the https scheme and keeps the
// first 12 entries. Blank URLs are dropped before counting toward the cap.
func normalizeImages(images []listing.SourceImage) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		src := strings.TrimSpace(img.Src)
		if src == "" {
			continue
		}
		urls = append(urls, forceHTTPS(src))
		if len(urls) == maxImages {
			break
		}
	}
	return urls
}

// forceHTTPS rewrites any source scheme to https
func forceHTTPS(url string) string {
	switch {
	case strings.HasPrefix(url, "https://"):
		return url
	case strings.HasPrefix(url, "http://"):
		return "https://" + strings.TrimPrefix(url, "http://")
	case strings.HasPrefix(url, "//"):
		return "https:" + url
	default:
		return url
	}
}

// mapCondition maps a source condition identifier through the fixed lookup
// table, defaulting conservatively for unknown identifiers
func mapCondition(identifier string) listing.ConditionCode {
	normalized := strings.ToLower(strings.TrimSpace(identifier))
	if code, ok := conditionTable[normalized]; ok {
		return code
	}
	return defaultCondition
}

// mapIdentifierCode picks the resolved identifier code (else the variant
// barcode) and replaces placeholder all-zero codes with the marketplace's
// "not applicable" sentinel
func mapIdentifierCode(resolved, barcode string) string {
	code := strings.TrimSpace(resolved)
	if code == "" {
		code = strings.TrimSpace(barcode)
	}
	if code == "" || isPlaceholderCode(code) {
		return notApplicable
	}
	return code
}

// isPlaceholderCode detects the known all-zero placeholder pattern in its
// 12- and 13-digit forms
func isPlaceholderCode(code string) bool {
	if len(code) != 12 && len(code) != 13 {
		return false
	}
	return strings.Count(code, "0") == len(code)
}

// deriveMPN strips the internal "-U<digits>" suffix from the SKU; when
// nothing remains the sentinel is used
func deriveMPN(sku string) string {
	mpn := mpnSuffixPattern.ReplaceAllString(sku, "")
	if mpn == "" {
		return notApplicable
	}
	return mpn
}

// mapBrand defaults the brand when the source vendor field is empty
func mapBrand(vendor string) string {
	if strings.TrimSpace(vendor) == "" {
		return defaultBrand
	}
	return vendor
}

// floorQuantity floors available quantity at zero; negative or missing
// source quantities never propagate
func floorQuantity(quantity int) int {
	if quantity < 0 {
		return 0
	}
	return quantity
}

// mapPackageWeight maps the source weight declaration to marketplace package
// details; omitted entirely when the variant declares no weight
func mapPackageWeight(variant *listing.SourceVariant) *listing.PackageWeight {
	if !variant.Weight.IsPositive() {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(variant.WeightUnit)) {
	case "kg":
		return &listing.PackageWeight{Value: variant.Weight, Unit: listing.WeightUnitKilogram}
	case "g":
		return &listing.PackageWeight{Value: variant.Weight.Shift(-3), Unit: listing.WeightUnitKilogram}
	case "oz":
		return &listing.PackageWeight{Value: variant.Weight.Div(decimal.NewFromInt(16)), Unit: listing.WeightUnitPound}
	default:
		// The source platform's default unit is pounds
		return &listing.PackageWeight{Value: variant.Weight, Unit: listing.WeightUnitPound}
	}
}
