package ledger

import (
	"context"

	"stockpilot/internal/core/id"
)

// Repository defines persistence for movement records. Movements are
// append-only; there are no update or delete operations.
type Repository interface {
	// CreateAddition inserts a receipt record (used during AddStock).
	CreateAddition(ctx context.Context, a *Addition) error

	// CreateAdjustment inserts a correction record (used during
	// RemoveStock, SetStock, and reconciliation approval).
	CreateAdjustment(ctx context.Context, a *Adjustment) error

	// ListAdditionsByProduct returns receipt history, newest first.
	ListAdditionsByProduct(ctx context.Context, productID id.ID, filter HistoryFilter) ([]Addition, error)

	// ListAdjustmentsByProduct returns correction history, newest first.
	ListAdjustmentsByProduct(ctx context.Context, productID id.ID, filter HistoryFilter) ([]Adjustment, error)
}
