package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/listbridge/backend/internal/domain/listing"
)

// defaultPaceInterval spaces whole-product operations to respect the
// marketplace's outbound rate ceiling (5 req/s, each product issuing
// several underlying calls).
const defaultPaceInterval = 200 * time.Millisecond

// entityTypeProduct is the entity type recorded in the sync log
const entityTypeProduct = "product"

// SyncSettings configures one sync service instance
type SyncSettings struct {
	// AutoSync enables AutoSyncNewProducts
	AutoSync bool
	// AutoSyncLimit bounds the page of candidates fetched per auto-sync run
	AutoSyncLimit int
	// PaceInterval is the delay between whole-product operations
	// (defaulted when zero)
	PaceInterval time.Duration
	// DefaultHandlingDays is the handling time used when no rule resolves one
	DefaultHandlingDays int
	// MerchantLocationKey is the fulfillment location key
	MerchantLocationKey string
	// MerchantAddress is the fixed address used to create the location
	MerchantAddress listing.MerchantAddress
}

// SyncService drives products through the create/update/end listing
// lifecycle against the marketplace. Batch processing is strictly
// sequential: sequencing enforces the outbound rate limit and prevents two
// operations racing to create a mapping for the same product.
type SyncService struct {
	source      listing.SourceCatalog
	marketplace listing.Marketplace
	mappings    listing.MappingRepository
	syncLog     listing.SyncLogWriter
	policies    *PolicyCache
	resolver    *AttributeResolver
	mapper      *ProductMapper
	settings    SyncSettings
	logger      *zap.Logger

	// sleep is the pacing primitive, replaceable in tests
	sleep func(time.Duration)
}

// NewSyncService creates a sync service with constructor-injected
// collaborators. The policy cache is constructed per run by the caller.
func NewSyncService(
	source listing.SourceCatalog,
	marketplace listing.Marketplace,
	mappings listing.MappingRepository,
	syncLog listing.SyncLogWriter,
	policies *PolicyCache,
	resolver *AttributeResolver,
	mapper *ProductMapper,
	settings SyncSettings,
	logger *zap.Logger,
) *SyncService {
	if settings.PaceInterval <= 0 {
		settings.PaceInterval = defaultPaceInterval
	}
	return &SyncService{
		source:      source,
		marketplace: marketplace,
		mappings:    mappings,
		syncLog:     syncLog,
		policies:    policies,
		resolver:    resolver,
		mapper:      mapper,
		settings:    settings,
		logger:      logger,
		sleep:       time.Sleep,
	}
}

// ---------------------------------------------------------------------------
// Batch Driver
// ---------------------------------------------------------------------------

// SyncProducts lists the given source products on the marketplace, one at a
// time. Each product folds into exactly one outcome class; a single
// product's failure never aborts the batch. Already-mapped products are
// skipped with zero marketplace writes.
func (s *SyncService) SyncProducts(ctx context.Context, ids []string, opts SyncOptions) *BatchResult {
	result := &BatchResult{Errors: make([]SyncError, 0)}

	for i, id := range ids {
		if i > 0 {
			s.sleep(s.settings.PaceInterval)
		}

		outcome := s.syncOne(ctx, id, opts)
		result.Processed++
		switch outcome.class {
		case outcomeCreated:
			result.Created++
		case outcomeSkipped:
			result.Skipped++
		case outcomeFailed:
			result.Failed++
			result.Errors = append(result.Errors, SyncError{ProductID: id, Message: outcome.err.Error()})
		}
	}

	s.logger.Info("Product sync batch completed",
		zap.Int("processed", result.Processed),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("draft", opts.Draft),
	)

	return result
}

// AutoSyncNewProducts fetches a bounded page of active source products,
// filters out those already mapped and feeds the remainder to the batch
// driver. A pure no-op when auto-sync is disabled or no candidates exist.
func (s *SyncService) AutoSyncNewProducts(ctx context.Context) (*BatchResult, error) {
	result := &BatchResult{Errors: make([]SyncError, 0)}
	if !s.settings.AutoSync {
		return result, nil
	}

	products, err := s.source.ListProducts(ctx, listing.SourceProductStatusActive, s.settings.AutoSyncLimit)
	if err != nil {
		return nil, fmt.Errorf("listing active source products: %w", err)
	}

	candidates := make([]string, 0, len(products))
	for _, product := range products {
		mapped, err := s.mappings.ExistsBySourceProduct(ctx, product.ID)
		if err != nil {
			return nil, fmt.Errorf("checking mapping for product %s: %w", product.ID, err)
		}
		if !mapped {
			candidates = append(candidates, product.ID)
		}
	}
	if len(candidates) == 0 {
		return result, nil
	}

	s.logger.Info("Auto-sync found unmapped products", zap.Int("count", len(candidates)))
	return s.SyncProducts(ctx, candidates, SyncOptions{}), nil
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

// syncOne drives a single product to an outcome. Errors are contained here:
// every failure becomes a failure log entry plus a structured outcome.
func (s *SyncService) syncOne(ctx context.Context, id string, opts SyncOptions) itemOutcome {
	mapped, err := s.mappings.ExistsBySourceProduct(ctx, id)
	if err != nil {
		return s.fail(ctx, id, fmt.Errorf("checking existing mapping: %w", err))
	}
	if mapped {
		// Already mapped is a skip, not a failure; no marketplace writes
		s.logger.Debug("Skipping already mapped product", zap.String("product_id", id))
		return skippedOutcome()
	}

	product, err := s.source.GetProduct(ctx, id)
	if err != nil {
		return s.fail(ctx, id, fmt.Errorf("fetching source product: %w", err))
	}

	// Preconditions, checked before any marketplace call
	if err := validateForListing(product); err != nil {
		return s.fail(ctx, id, err)
	}
	variant := &product.Variants[0]

	attrs := s.resolver.ResolveAll(product, s.settings.DefaultHandlingDays)

	if opts.DryRun {
		s.appendLog(ctx, id, listing.SyncOutcomeSuccess,
			fmt.Sprintf("dry run: would list SKU %s in category %s", variant.SKU, attrs.CategoryID))
		return skippedOutcome()
	}

	policies, err := s.policies.Get(ctx)
	if err != nil {
		return s.fail(ctx, id, err)
	}

	item, offer := s.mapper.Map(product, variant, attrs, policies)

	mapping, err := s.createListing(ctx, product, item, offer, opts.Draft)
	if err != nil {
		return s.fail(ctx, id, err)
	}

	if err := s.mappings.Insert(ctx, mapping); err != nil {
		return s.fail(ctx, id, fmt.Errorf("persisting mapping: %w", err))
	}
	s.appendLog(ctx, id, listing.SyncOutcomeSuccess,
		fmt.Sprintf("created %s listing %s for SKU %s", mapping.Status, mapping.ListingID, mapping.SKU))

	s.logger.Info("Listed product on marketplace",
		zap.String("product_id", id),
		zap.String("listing_id", mapping.ListingID),
		zap.String("sku", mapping.SKU),
		zap.String("status", mapping.Status.String()),
	)
	return createdOutcome()
}

// createListing runs the strictly ordered marketplace create sequence and
// returns the mapping to persist. Partial remote state left by a failure is
// intentional: the orphaned-offer cleanup on the next attempt is the
// designed recovery path.
func (s *SyncService) createListing(
	ctx context.Context,
	product *listing.SourceProduct,
	item *listing.InventoryItem,
	offer *listing.Offer,
	draft bool,
) (*listing.ListingMapping, error) {
	// (a) the fulfillment location must exist before any offer references it
	if err := s.marketplace.EnsureLocation(ctx, s.settings.MerchantLocationKey, s.settings.MerchantAddress); err != nil {
		return nil, fmt.Errorf("ensuring fulfillment location: %w", err)
	}

	// (b) idempotent create-or-replace of the inventory item
	if err := s.marketplace.PutInventoryItem(ctx, item); err != nil {
		return nil, fmt.Errorf("writing inventory item: %w", err)
	}

	// (c) offer creation is not idempotent: delete offers orphaned by a
	// previously interrupted attempt before creating a fresh one
	if err := s.deleteOrphanedOffers(ctx, item.SKU); err != nil {
		return nil, err
	}

	// (d) create the offer
	offerID, err := s.marketplace.CreateOffer(ctx, offer)
	if err != nil {
		return nil, fmt.Errorf("creating offer: %w", err)
	}

	// (e) publish, unless the caller asked for a draft
	listingID := "draft-" + offerID
	status := listing.MappingStatusDraft
	if !draft {
		listingID, err = s.marketplace.PublishOffer(ctx, offerID)
		if err != nil {
			return nil, fmt.Errorf("publishing offer: %w", err)
		}
		status = listing.MappingStatusActive
	}

	variant := &product.Variants[0]
	return listing.NewListingMapping(product.ID, listingID, offerID, item.SKU, item.Title, variant.Price, status)
}

// deleteOrphanedOffers removes marketplace offers for the SKU that no
// current mapping tracks
func (s *SyncService) deleteOrphanedOffers(ctx context.Context, sku string) error {
	orphans, err := s.marketplace.ListOffers(ctx, sku)
	if err != nil {
		return fmt.Errorf("listing existing offers: %w", err)
	}
	for _, orphan := range orphans {
		s.logger.Warn("Deleting orphaned offer left by a previous attempt",
			zap.String("sku", sku),
			zap.String("offer_id", orphan.OfferID),
		)
		if err := s.marketplace.DeleteOffer(ctx, orphan.OfferID); err != nil {
			return fmt.Errorf("deleting orphaned offer %s: %w", orphan.OfferID, err)
		}
	}
	return nil
}

// validateForListing checks the create preconditions. Each violation is a
// fast, descriptive, non-fatal error raised before any marketplace call.
func validateForListing(product *listing.SourceProduct) error {
	if !product.IsActive() {
		return fmt.Errorf("%w: status is %s", listing.ErrProductNotActive, product.Status)
	}
	if len(product.Variants) != 1 {
		return fmt.Errorf("%w: product has %d variants", listing.ErrMultiVariantNotSupported, len(product.Variants))
	}
	variant := product.Variants[0]
	if variant.SKU == "" {
		return listing.ErrVariantMissingSKU
	}
	if variant.Quantity <= 0 {
		return fmt.Errorf("%w: quantity is %d", listing.ErrNoAvailableQuantity, variant.Quantity)
	}
	if len(product.Images) == 0 {
		return listing.ErrNoImages
	}
	return nil
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// UpdateListing re-projects a mapped product onto its marketplace listing.
// The inventory item is replaced (idempotent write); an existing offer is
// updated in place rather than recreated, preserving the marketplace-side
// listing history.
func (s *SyncService) UpdateListing(ctx context.Context, id string) (*UpdateResult, error) {
	mapping, err := s.mappings.FindBySourceProduct(ctx, id)
	if err != nil {
		return &UpdateResult{Success: false, Updated: []string{}}, err
	}

	product, err := s.source.GetProduct(ctx, id)
	if err != nil {
		return s.failUpdate(ctx, id, fmt.Errorf("fetching source product: %w", err))
	}
	if len(product.Variants) != 1 {
		return s.failUpdate(ctx, id, fmt.Errorf("%w: product has %d variants", listing.ErrMultiVariantNotSupported, len(product.Variants)))
	}
	variant := &product.Variants[0]

	attrs := s.resolver.ResolveAll(product, s.settings.DefaultHandlingDays)
	policies, err := s.policies.Get(ctx)
	if err != nil {
		return s.failUpdate(ctx, id, err)
	}
	item, offer := s.mapper.Map(product, variant, attrs, policies)

	updated := make([]string, 0, 2)

	if err := s.marketplace.PutInventoryItem(ctx, item); err != nil {
		return s.failUpdate(ctx, id, fmt.Errorf("replacing inventory item: %w", err))
	}
	updated = append(updated, "inventory_item")

	existing, err := s.marketplace.ListOffers(ctx, item.SKU)
	if err != nil {
		return s.failUpdate(ctx, id, fmt.Errorf("listing offers: %w", err))
	}
	if len(existing) > 0 {
		// In-place update keeps view/watch counters and search ranking
		if err := s.marketplace.UpdateOffer(ctx, existing[0].OfferID, offer); err != nil {
			return s.failUpdate(ctx, id, fmt.Errorf("updating offer: %w", err))
		}
		updated = append(updated, "offer")
	} else {
		// The offer disappeared out from under the mapping; recreate it
		offerID, err := s.marketplace.CreateOffer(ctx, offer)
		if err != nil {
			return s.failUpdate(ctx, id, fmt.Errorf("recreating offer: %w", err))
		}
		if !mapping.IsDraft() {
			if _, err := s.marketplace.PublishOffer(ctx, offerID); err != nil {
				return s.failUpdate(ctx, id, fmt.Errorf("republishing offer: %w", err))
			}
		}
		mapping.OfferID = offerID
		updated = append(updated, "offer")
	}

	mapping.RefreshDisplay(item.Title, variant.Price)
	if err := s.mappings.Update(ctx, mapping); err != nil {
		return s.failUpdate(ctx, id, fmt.Errorf("persisting mapping: %w", err))
	}

	s.appendLog(ctx, id, listing.SyncOutcomeSuccess,
		fmt.Sprintf("updated listing %s (%s)", mapping.ListingID, strings.Join(updated, ", ")))
	s.logger.Info("Updated marketplace listing",
		zap.String("product_id", id),
		zap.String("listing_id", mapping.ListingID),
		zap.Strings("updated", updated),
	)
	return &UpdateResult{Success: true, Updated: updated}, nil
}

// failUpdate records an update failure and surfaces it to the caller
func (s *SyncService) failUpdate(ctx context.Context, id string, err error) (*UpdateResult, error) {
	s.appendLog(ctx, id, listing.SyncOutcomeFailed, err.Error())
	s.logger.Error("Listing update failed", zap.String("product_id", id), zap.Error(err))
	return &UpdateResult{Success: false, Updated: []string{}}, err
}

// ---------------------------------------------------------------------------
// End
// ---------------------------------------------------------------------------

// EndListing withdraws the marketplace offer and advances the mapping to its
// terminal state. Ending an already-ended mapping is a non-fatal error with
// zero marketplace calls; a marketplace report that the offer is already
// unpublished counts as success, since the goal state is reached.
func (s *SyncService) EndListing(ctx context.Context, id string) *EndResult {
	mapping, err := s.mappings.FindBySourceProduct(ctx, id)
	if err != nil {
		return &EndResult{Success: false, Error: err.Error()}
	}
	if mapping.Status.IsTerminal() {
		return &EndResult{Success: false, Error: listing.ErrMappingAlreadyEnded.Error()}
	}

	if err := s.marketplace.WithdrawOffer(ctx, mapping.OfferID); err != nil {
		if !errors.Is(err, listing.ErrOfferAlreadyUnpublished) {
			s.appendLog(ctx, id, listing.SyncOutcomeFailed, err.Error())
			s.logger.Error("Failed to withdraw offer",
				zap.String("product_id", id),
				zap.String("offer_id", mapping.OfferID),
				zap.Error(err),
			)
			return &EndResult{Success: false, Error: err.Error()}
		}
		s.logger.Debug("Offer already unpublished, treating as ended",
			zap.String("offer_id", mapping.OfferID))
	}

	if err := mapping.End(); err != nil {
		return &EndResult{Success: false, Error: err.Error()}
	}
	if err := s.mappings.Update(ctx, mapping); err != nil {
		return &EndResult{Success: false, Error: err.Error()}
	}

	s.appendLog(ctx, id, listing.SyncOutcomeSuccess,
		fmt.Sprintf("ended listing %s", mapping.ListingID))
	s.logger.Info("Ended marketplace listing",
		zap.String("product_id", id),
		zap.String("listing_id", mapping.ListingID),
	)
	return &EndResult{Success: true}
}

// ---------------------------------------------------------------------------
// Audit Trail
// ---------------------------------------------------------------------------

// fail records a per-item failure in the audit trail and wraps it into the
// batch outcome
func (s *SyncService) fail(ctx context.Context, id string, err error) itemOutcome {
	s.appendLog(ctx, id, listing.SyncOutcomeFailed, err.Error())
	s.logger.Error("Product sync failed", zap.String("product_id", id), zap.Error(err))
	return failedOutcome(err)
}

// appendLog writes one audit entry; audit failures are logged but never
// override the operation outcome
func (s *SyncService) appendLog(ctx context.Context, entityID string, status listing.SyncOutcome, detail string) {
	entry := listing.NewSyncLogEntry(listing.SyncDirectionOutbound, entityTypeProduct, entityID, status, detail)
	if err := s.syncLog.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to append sync log entry",
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}
