package reconciliation

import (
	"context"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// ListFilter selects reconciliations for listing.
type ListFilter struct {
	Status      *Status
	CreatedByID *id.ID
	Page        domain.Page
}

// Repository defines persistence for reconciliation documents.
type Repository interface {
	// Create persists the header and all items.
	Create(ctx context.Context, r *Reconciliation) error

	// GetByID retrieves a header without items.
	GetByID(ctx context.Context, reconciliationID id.ID) (*Reconciliation, error)

	// GetItems retrieves items in creation order.
	GetItems(ctx context.Context, reconciliationID id.ID) ([]Item, error)

	// UpdateHeader writes status, approver, and timestamp fields,
	// guarded by the status the caller observed when it read the
	// header. Returns CONCURRENT_MODIFICATION when another writer got
	// there first. Items are never updated through this path.
	UpdateHeader(ctx context.Context, r *Reconciliation, from Status) error

	// SetItemVerified flips the verified flag on a single item of the
	// given reconciliation. NOT_FOUND when the item does not exist or
	// belongs to a different document.
	SetItemVerified(ctx context.Context, reconciliationID, itemID id.ID, verified bool) error

	// List retrieves headers with filtering and pagination.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Reconciliation], error)
}
