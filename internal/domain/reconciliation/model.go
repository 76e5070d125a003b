// Package reconciliation provides the physical-count reconciliation
// workflow: a draft document with counted line items that, once
// approved, replays each discrepancy through the stock ledger.
package reconciliation

import (
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

// Status is the workflow state of a reconciliation.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Reconciliation is the header of a physical-count exercise.
// Once APPROVED or REJECTED, the header and its items are immutable.
type Reconciliation struct {
	ID              id.ID      `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description,omitempty"`
	Status          Status     `db:"status" json:"status"`
	CreatedByID     id.ID      `db:"created_by_id" json:"createdById"`
	ApprovedByID    *id.ID     `db:"approved_by_id" json:"approvedById,omitempty"`
	RejectionReason string     `db:"rejection_reason" json:"rejectionReason,omitempty"`
	SubmittedAt     *time.Time `db:"submitted_at" json:"submittedAt,omitempty"`
	ApprovedAt      *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`

	Items []Item `db:"-" json:"items"`
}

// Item is one counted product line. Discrepancy and EstimatedImpact are
// fixed at creation time and reflect system state when the count was
// taken, not when the document is approved. Verified is the only field
// mutable after creation.
type Item struct {
	ID                id.ID        `db:"id" json:"id"`
	ReconciliationID  id.ID        `db:"reconciliation_id" json:"reconciliationId"`
	ProductID         id.ID        `db:"product_id" json:"productId"`
	SystemCount       int64        `db:"system_count" json:"systemCount"`
	PhysicalCount     int64        `db:"physical_count" json:"physicalCount"`
	Discrepancy       int64        `db:"discrepancy" json:"discrepancy"`
	DiscrepancyReason string       `db:"discrepancy_reason" json:"discrepancyReason,omitempty"`
	EstimatedImpact   *types.Money `db:"estimated_impact" json:"estimatedImpact,omitempty"`
	Notes             string       `db:"notes" json:"notes,omitempty"`
	Verified          bool         `db:"verified" json:"verified"`
}

// New creates a reconciliation header in DRAFT status.
func New(title, description string, createdBy id.ID) *Reconciliation {
	now := time.Now().UTC()
	return &Reconciliation{
		ID:          id.New(),
		Title:       title,
		Description: description,
		Status:      StatusDraft,
		CreatedByID: createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
		Items:       make([]Item, 0),
	}
}

// AddItem appends a counted line. Discrepancy is physicalCount minus
// systemCount. EstimatedImpact is populated only for shrinkage (negative
// discrepancies): losses are valued, overages are not.
func (r *Reconciliation) AddItem(productID id.ID, systemCount, physicalCount int64, unitCost types.Money, reason, notes string) {
	item := Item{
		ID:                id.New(),
		ReconciliationID:  r.ID,
		ProductID:         productID,
		SystemCount:       systemCount,
		PhysicalCount:     physicalCount,
		Discrepancy:       physicalCount - systemCount,
		DiscrepancyReason: reason,
		Notes:             notes,
	}

	if item.Discrepancy < 0 {
		impact := types.MoneyFromUnits(unitCost, -item.Discrepancy)
		item.EstimatedImpact = &impact
	}

	r.Items = append(r.Items, item)
}

// Validate checks required header fields and items.
func (r *Reconciliation) Validate() error {
	if r.Title == "" {
		return apperror.NewValidation("title is required").
			WithDetail("field", "title")
	}
	if id.IsNil(r.CreatedByID) {
		return apperror.NewValidation("created by is required").
			WithDetail("field", "createdById")
	}
	if len(r.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}
	for i, item := range r.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("item product is required").
				WithDetail("itemIndex", i)
		}
		if item.SystemCount < 0 || item.PhysicalCount < 0 {
			return apperror.NewValidation("item counts cannot be negative").
				WithDetail("itemIndex", i)
		}
	}
	return nil
}

// Submit transitions DRAFT to PENDING and stamps the submission time.
func (r *Reconciliation) Submit() error {
	if r.Status != StatusDraft {
		return apperror.NewInvalidStateTransition("reconciliation", string(r.Status), string(StatusPending))
	}
	now := time.Now().UTC()
	r.Status = StatusPending
	r.SubmittedAt = &now
	r.UpdatedAt = now
	return nil
}

// Approve transitions PENDING to APPROVED. Ledger application is the
// service's responsibility; this only moves the state machine.
func (r *Reconciliation) Approve(approverID id.ID) error {
	if r.Status != StatusPending {
		return apperror.NewInvalidStateTransition("reconciliation", string(r.Status), string(StatusApproved))
	}
	now := time.Now().UTC()
	r.Status = StatusApproved
	r.ApprovedByID = &approverID
	r.ApprovedAt = &now
	r.UpdatedAt = now
	return nil
}

// Reject transitions PENDING to REJECTED with a reason. No ledger effect.
func (r *Reconciliation) Reject(approverID id.ID, reason string) error {
	if r.Status != StatusPending {
		return apperror.NewInvalidStateTransition("reconciliation", string(r.Status), string(StatusRejected))
	}
	now := time.Now().UTC()
	r.Status = StatusRejected
	r.ApprovedByID = &approverID
	r.RejectionReason = reason
	r.UpdatedAt = now
	return nil
}

// IsTerminal reports whether the document can no longer change.
func (r *Reconciliation) IsTerminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// TotalShrinkage sums the estimated impact across all shrinkage items.
func (r *Reconciliation) TotalShrinkage() types.Money {
	total := types.ZeroMoney()
	for _, item := range r.Items {
		if item.EstimatedImpact != nil {
			total = total.Add(*item.EstimatedImpact)
		}
	}
	return total
}
