// Package listing contains the domain model for mirroring source-platform
// products as marketplace listings: the mapping entity that ties a source
// product to its listing, the audit log of sync attempts, and the ports to
// the source catalog and the marketplace.
//
// Following the Ports & Adapters pattern, the interfaces here are implemented
// by the infrastructure layer (Shopify and eBay adapters, GORM repositories)
// and orchestrated by the application layer.
package listing
