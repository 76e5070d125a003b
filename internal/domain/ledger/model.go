// Package ledger provides the stock ledger: the only primitives allowed
// to mutate a product's on-hand quantity. Every mutation records a
// movement and an audit entry in the same transaction.
package ledger

import (
	"time"

	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

// MovementType classifies a stock-changing event.
type MovementType string

const (
	MovementAddition                MovementType = "ADDITION"
	MovementRemoval                 MovementType = "REMOVAL"
	MovementReduction               MovementType = "REDUCTION"
	MovementReconciliationAddition  MovementType = "RECONCILIATION_ADDITION"
	MovementReconciliationReduction MovementType = "RECONCILIATION_REDUCTION"
)

// AdjustmentStatus is the lifecycle state of an adjustment record.
// The ledger has no partial states; every committed adjustment is final.
type AdjustmentStatus string

const (
	StatusCompleted AdjustmentStatus = "COMPLETED"
)

// Addition is an immutable record of a stock receipt (purchase, return).
type Addition struct {
	ID          id.ID       `db:"id" json:"id"`
	ProductID   id.ID       `db:"product_id" json:"productId"`
	Quantity    int64       `db:"quantity" json:"quantity"`
	TotalCost   types.Money `db:"total_cost" json:"totalCost"`
	Reason      string      `db:"reason" json:"reason,omitempty"`
	Notes       string      `db:"notes" json:"notes,omitempty"`
	ReferenceNo string      `db:"reference_no" json:"referenceNo,omitempty"`
	SupplierID  *id.ID      `db:"supplier_id" json:"supplierId,omitempty"`
	CreatedBy   id.ID       `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// Adjustment is an immutable record of a stock correction. Quantity is
// the magnitude of the change; OldQuantity and NewQuantity capture the
// stock value before and after.
type Adjustment struct {
	ID          id.ID            `db:"id" json:"id"`
	ProductID   id.ID            `db:"product_id" json:"productId"`
	Type        MovementType     `db:"type" json:"type"`
	Quantity    int64            `db:"quantity" json:"quantity"`
	OldQuantity int64            `db:"old_quantity" json:"oldQuantity"`
	NewQuantity int64            `db:"new_quantity" json:"newQuantity"`
	Reason      string           `db:"reason" json:"reason,omitempty"`
	Notes       string           `db:"notes" json:"notes,omitempty"`
	Status      AdjustmentStatus `db:"status" json:"status"`
	CreatedBy   id.ID            `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}

// AddOptions carries optional attributes for AddStock.
type AddOptions struct {
	Reason      string
	Notes       string
	ReferenceNo string
	SupplierID  *id.ID
	CostPerUnit types.Money // defaults to zero when unset
}

// AdjustOptions carries optional attributes for RemoveStock and SetStock.
type AdjustOptions struct {
	Reason string
	Notes  string
}

// HistoryFilter selects movement history for a product.
type HistoryFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}
