package listing

import (
	"context"
	"fmt"
	"sync"

	"github.com/listbridge/backend/internal/domain/listing"
)

// PolicyCache memoizes the seller's business policy IDs for the lifetime of
// a run. The first caller performs one remote fetch; every subsequent call
// returns the memoized value. Construct one per run and pass it into the
// sync service: the cache is an explicit dependency, not process-global
// state, so concurrent runs each own their value.
type PolicyCache struct {
	marketplace listing.Marketplace

	mu       sync.Mutex
	policies *listing.SellingPolicyIDs
}

// NewPolicyCache creates an empty cache backed by the marketplace port
func NewPolicyCache(marketplace listing.Marketplace) *PolicyCache {
	return &PolicyCache{marketplace: marketplace}
}

// Get returns the memoized policy IDs, fetching them on first use
func (c *PolicyCache) Get(ctx context.Context) (listing.SellingPolicyIDs, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.policies != nil {
		return *c.policies, nil
	}
	return c.fetchLocked(ctx)
}

// Refresh discards the memoized value and refetches
func (c *PolicyCache) Refresh(ctx context.Context) (listing.SellingPolicyIDs, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.policies = nil
	return c.fetchLocked(ctx)
}

// fetchLocked performs the remote fetch; callers hold c.mu
func (c *PolicyCache) fetchLocked(ctx context.Context) (listing.SellingPolicyIDs, error) {
	policies, err := c.marketplace.GetSellingPolicies(ctx)
	if err != nil {
		return listing.SellingPolicyIDs{}, fmt.Errorf("fetching selling policies: %w", err)
	}
	c.policies = policies
	return *policies, nil
}
