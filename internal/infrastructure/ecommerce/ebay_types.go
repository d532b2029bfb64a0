package ecommerce

import (
	"github.com/listbridge/backend/internal/domain/listing"
)

// ---------------------------------------------------------------------------
// eBay Sell API Payloads
// ---------------------------------------------------------------------------

// ebayErrorIDOfferNotAvailable is returned by the withdraw call when the
// offer is not currently published
const ebayErrorIDOfferNotAvailable = 25713

// EbayErrorResponse is the error envelope returned on non-2xx responses
type EbayErrorResponse struct {
	Errors []EbayError `json:"errors"`
}

// EbayError is one error entry in the envelope
type EbayError struct {
	ErrorID  int    `json:"errorId"`
	Domain   string `json:"domain"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// HasErrorID reports whether the envelope contains the given error ID
func (r *EbayErrorResponse) HasErrorID(id int) bool {
	for _, e := range r.Errors {
		if e.ErrorID == id {
			return true
		}
	}
	return false
}

// FirstMessage returns the first error message, if any
func (r *EbayErrorResponse) FirstMessage() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// EbayInventoryItem is the body of PUT /sell/inventory/v1/inventory_item/{sku}
type EbayInventoryItem struct {
	Product              EbayProduct               `json:"product"`
	Condition            string                    `json:"condition"`
	Availability         EbayAvailability          `json:"availability"`
	PackageWeightAndSize *EbayPackageWeightAndSize `json:"packageWeightAndSize,omitempty"`
}

// EbayProduct is the product block of an inventory item
type EbayProduct struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	MPN         string   `json:"mpn"`
	UPC         []string `json:"upc,omitempty"`
	ImageUrls   []string `json:"imageUrls"`
}

// EbayAvailability is the availability block of an inventory item
type EbayAvailability struct {
	ShipToLocationAvailability EbayShipToLocationAvailability `json:"shipToLocationAvailability"`
}

// EbayShipToLocationAvailability holds the sellable quantity
type EbayShipToLocationAvailability struct {
	Quantity int `json:"quantity"`
}

// EbayPackageWeightAndSize is the shipping package block of an inventory item
type EbayPackageWeightAndSize struct {
	Weight EbayWeight `json:"weight"`
}

// EbayWeight is a weight magnitude with its unit
type EbayWeight struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// EbayGetInventoryItemResponse is the body of GET /sell/inventory/v1/inventory_item/{sku}
type EbayGetInventoryItemResponse struct {
	SKU                  string                    `json:"sku"`
	Product              EbayProduct               `json:"product"`
	Condition            string                    `json:"condition"`
	Availability         *EbayAvailability         `json:"availability"`
	PackageWeightAndSize *EbayPackageWeightAndSize `json:"packageWeightAndSize"`
}

// EbayOffer is the body of POST /sell/inventory/v1/offer and of offer updates
type EbayOffer struct {
	SKU                 string              `json:"sku"`
	MarketplaceID       string              `json:"marketplaceId"`
	Format              string              `json:"format"`
	AvailableQuantity   int                 `json:"availableQuantity"`
	CategoryID          string              `json:"categoryId"`
	ListingDescription  string              `json:"listingDescription"`
	PricingSummary      EbayPricingSummary  `json:"pricingSummary"`
	ListingPolicies     EbayListingPolicies `json:"listingPolicies"`
	MerchantLocationKey string              `json:"merchantLocationKey"`
}

// EbayPricingSummary holds the offer price
type EbayPricingSummary struct {
	Price EbayAmount `json:"price"`
}

// EbayAmount is a monetary amount with its currency
type EbayAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// EbayListingPolicies references the seller's business policies
type EbayListingPolicies struct {
	FulfillmentPolicyID string `json:"fulfillmentPolicyId"`
	PaymentPolicyID     string `json:"paymentPolicyId"`
	ReturnPolicyID      string `json:"returnPolicyId"`
}

// EbayCreateOfferResponse is the body returned by the offer create call
type EbayCreateOfferResponse struct {
	OfferID string `json:"offerId"`
}

// EbayPublishOfferResponse is the body returned by the offer publish call
type EbayPublishOfferResponse struct {
	ListingID string `json:"listingId"`
}

// EbayGetOffersResponse is the body of GET /sell/inventory/v1/offer?sku={sku}
type EbayGetOffersResponse struct {
	Offers []EbayOfferSummary `json:"offers"`
	Total  int                `json:"total"`
}

// EbayOfferSummary is one offer entry in the get-offers response
type EbayOfferSummary struct {
	OfferID string       `json:"offerId"`
	SKU     string       `json:"sku"`
	Status  string       `json:"status"`
	Listing *EbayListing `json:"listing"`
}

// EbayListing is the published-listing block of an offer summary
type EbayListing struct {
	ListingID     string `json:"listingId"`
	ListingStatus string `json:"listingStatus"`
}

// EbayInventoryLocation is the body of POST /sell/inventory/v1/location/{key}
type EbayInventoryLocation struct {
	Location               EbayLocationDetails `json:"location"`
	Name                   string              `json:"name"`
	MerchantLocationStatus string              `json:"merchantLocationStatus"`
	LocationTypes          []string            `json:"locationTypes"`
}

// EbayLocationDetails wraps the location address
type EbayLocationDetails struct {
	Address EbayAddress `json:"address"`
}

// EbayAddress is a postal address
type EbayAddress struct {
	AddressLine1    string `json:"addressLine1"`
	City            string `json:"city"`
	StateOrProvince string `json:"stateOrProvince"`
	PostalCode      string `json:"postalCode"`
	Country         string `json:"country"`
}

// EbayFulfillmentPoliciesResponse is the body of GET /sell/account/v1/fulfillment_policy
type EbayFulfillmentPoliciesResponse struct {
	FulfillmentPolicies []EbayFulfillmentPolicy `json:"fulfillmentPolicies"`
}

// EbayFulfillmentPolicy is one fulfillment policy entry
type EbayFulfillmentPolicy struct {
	FulfillmentPolicyID string `json:"fulfillmentPolicyId"`
	Name                string `json:"name"`
}

// EbayPaymentPoliciesResponse is the body of GET /sell/account/v1/payment_policy
type EbayPaymentPoliciesResponse struct {
	PaymentPolicies []EbayPaymentPolicy `json:"paymentPolicies"`
}

// EbayPaymentPolicy is one payment policy entry
type EbayPaymentPolicy struct {
	PaymentPolicyID string `json:"paymentPolicyId"`
	Name            string `json:"name"`
}

// EbayReturnPoliciesResponse is the body of GET /sell/account/v1/return_policy
type EbayReturnPoliciesResponse struct {
	ReturnPolicies []EbayReturnPolicy `json:"returnPolicies"`
}

// EbayReturnPolicy is one return policy entry
type EbayReturnPolicy struct {
	ReturnPolicyID string `json:"returnPolicyId"`
	Name           string `json:"name"`
}

// ---------------------------------------------------------------------------
// Domain Conversion
// ---------------------------------------------------------------------------

// EbayInventoryItemFromDomain converts a domain inventory item to the API payload
func EbayInventoryItemFromDomain(item *listing.InventoryItem) *EbayInventoryItem {
	payload := &EbayInventoryItem{
		Product: EbayProduct{
			Title:       item.Title,
			Description: item.Description,
			Brand:       item.Brand,
			MPN:         item.MPN,
			ImageUrls:   item.ImageURLs,
		},
		Condition: string(item.Condition),
		Availability: EbayAvailability{
			ShipToLocationAvailability: EbayShipToLocationAvailability{
				Quantity: item.Quantity,
			},
		},
	}

	if item.UPC != "" {
		payload.Product.UPC = []string{item.UPC}
	}

	if item.PackageWeight != nil {
		payload.PackageWeightAndSize = &EbayPackageWeightAndSize{
			Weight: EbayWeight{
				Value: item.PackageWeight.Value.InexactFloat64(),
				Unit:  string(item.PackageWeight.Unit),
			},
		}
	}

	return payload
}

// ToDomain converts the API payload to a domain inventory item
func (r *EbayGetInventoryItemResponse) ToDomain() *listing.InventoryItem {
	item := &listing.InventoryItem{
		SKU:         r.SKU,
		Condition:   listing.ConditionCode(r.Condition),
		Title:       r.Product.Title,
		Description: r.Product.Description,
		Brand:       r.Product.Brand,
		MPN:         r.Product.MPN,
		ImageURLs:   r.Product.ImageUrls,
	}

	if len(r.Product.UPC) > 0 {
		item.UPC = r.Product.UPC[0]
	}
	if r.Availability != nil {
		item.Quantity = r.Availability.ShipToLocationAvailability.Quantity
	}

	return item
}

// EbayOfferFromDomain converts a domain offer to the API payload
func EbayOfferFromDomain(offer *listing.Offer) *EbayOffer {
	return &EbayOffer{
		SKU:                offer.SKU,
		MarketplaceID:      offer.MarketplaceID,
		Format:             string(offer.Format),
		AvailableQuantity:  offer.AvailableQuantity,
		CategoryID:         offer.CategoryID,
		ListingDescription: offer.ListingDescription,
		PricingSummary: EbayPricingSummary{
			Price: EbayAmount{
				Value:    offer.Price,
				Currency: offer.Currency,
			},
		},
		ListingPolicies: EbayListingPolicies{
			FulfillmentPolicyID: offer.FulfillmentPolicyID,
			PaymentPolicyID:     offer.PaymentPolicyID,
			ReturnPolicyID:      offer.ReturnPolicyID,
		},
		MerchantLocationKey: offer.MerchantLocationKey,
	}
}

// ToDomain converts the offer summary to a domain offer summary
func (o *EbayOfferSummary) ToDomain() listing.OfferSummary {
	summary := listing.OfferSummary{
		OfferID:   o.OfferID,
		SKU:       o.SKU,
		Published: o.Status == "PUBLISHED",
	}
	if o.Listing != nil {
		summary.ListingID = o.Listing.ListingID
	}
	return summary
}
