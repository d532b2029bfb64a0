package listing

// ---------------------------------------------------------------------------
// Sync Options & Results
// ---------------------------------------------------------------------------

// SyncOptions controls one batch invocation
type SyncOptions struct {
	// DryRun validates and logs intent without issuing marketplace calls
	DryRun bool
	// Draft creates the offer without publishing it
	Draft bool
}

// SyncError is one per-item failure surfaced in the batch result
type SyncError struct {
	// ProductID is the source product that failed
	ProductID string `json:"product_id"`
	// Message is the failure description
	Message string `json:"message"`
}

// BatchResult accumulates the outcome of one batch invocation. Every
// processed product lands in exactly one of the counter classes; no
// per-product error escapes the batch.
type BatchResult struct {
	// Processed is the number of products examined
	Processed int `json:"processed"`
	// Created is the number of listings created (published or draft)
	Created int `json:"created"`
	// Updated is the number of listings updated
	Updated int `json:"updated"`
	// Skipped is the number of products skipped (already mapped, or dry run)
	Skipped int `json:"skipped"`
	// Failed is the number of products that failed
	Failed int `json:"failed"`
	// Errors lists the per-item failures
	Errors []SyncError `json:"errors"`
}

// UpdateResult is the outcome of updating one existing listing
type UpdateResult struct {
	// Success indicates the update completed
	Success bool `json:"success"`
	// Updated names the marketplace resources that were written
	Updated []string `json:"updated"`
}

// EndResult is the outcome of ending one listing
type EndResult struct {
	// Success indicates the listing reached the ended state
	Success bool `json:"success"`
	// Error is the failure description when Success is false
	Error string `json:"error,omitempty"`
}

// ---------------------------------------------------------------------------
// Per-Item Outcome
// ---------------------------------------------------------------------------

// outcomeClass is the exhaustive classification of one item in a batch
type outcomeClass int

const (
	outcomeCreated outcomeClass = iota
	outcomeSkipped
	outcomeFailed
)

// itemOutcome carries one product through the batch fold
type itemOutcome struct {
	class outcomeClass
	err   error
}

func createdOutcome() itemOutcome         { return itemOutcome{class: outcomeCreated} }
func skippedOutcome() itemOutcome         { return itemOutcome{class: outcomeSkipped} }
func failedOutcome(err error) itemOutcome { return itemOutcome{class: outcomeFailed, err: err} }
