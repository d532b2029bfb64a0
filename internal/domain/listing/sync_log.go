package listing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Sync Log Types
// ---------------------------------------------------------------------------

// SyncDirection represents the direction of a sync operation
type SyncDirection string

const (
	// SyncDirectionOutbound indicates data pushed from the source platform to the marketplace
	SyncDirectionOutbound SyncDirection = "OUTBOUND"
	// SyncDirectionInbound indicates data pulled from the marketplace (unused by this engine,
	// recorded for forward compatibility of the audit trail)
	SyncDirectionInbound SyncDirection = "INBOUND"
)

// IsValid returns true if the direction is valid
func (d SyncDirection) IsValid() bool {
	switch d {
	case SyncDirectionOutbound, SyncDirectionInbound:
		return true
	default:
		return false
	}
}

// SyncOutcome represents the outcome recorded for a sync attempt
type SyncOutcome string

const (
	// SyncOutcomeSuccess indicates the operation completed
	SyncOutcomeSuccess SyncOutcome = "SUCCESS"
	// SyncOutcomeFailed indicates the operation failed
	SyncOutcomeFailed SyncOutcome = "FAILED"
)

// ---------------------------------------------------------------------------
// SyncLogEntry
// ---------------------------------------------------------------------------

// SyncLogEntry is one immutable record in the append-only audit trail.
// One entry is written per orchestrator operation outcome; entries are never
// mutated or deleted.
type SyncLogEntry struct {
	// ID is the unique identifier of this entry
	ID uuid.UUID
	// Direction is the sync direction
	Direction SyncDirection
	// EntityType names the kind of entity the operation targeted (e.g. "product", "listing")
	EntityType string
	// EntityID is the identifier of the entity on the source platform
	EntityID string
	// Status is the recorded outcome
	Status SyncOutcome
	// Detail is free-text context: the action taken or the error text
	Detail string
	// CreatedAt is when the entry was recorded
	CreatedAt time.Time
}

// NewSyncLogEntry creates an audit record for one operation outcome
func NewSyncLogEntry(direction SyncDirection, entityType, entityID string, status SyncOutcome, detail string) *SyncLogEntry {
	return &SyncLogEntry{
		ID:         uuid.New(),
		Direction:  direction,
		EntityType: entityType,
		EntityID:   entityID,
		Status:     status,
		Detail:     detail,
		CreatedAt:  time.Now(),
	}
}

// ---------------------------------------------------------------------------
// SyncLog Ports
// ---------------------------------------------------------------------------

// SyncLogWriter defines the append-only persistence port for the audit trail
type SyncLogWriter interface {
	// Append persists a new entry
	Append(ctx context.Context, entry *SyncLogEntry) error
}

// SyncLogReader defines the read port used by the trigger surface
type SyncLogReader interface {
	// Recent returns the most recent entries, newest first
	Recent(ctx context.Context, limit int) ([]SyncLogEntry, error)
}
