package dto

import (
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/reconciliation"
)

// ReconciliationItemRequest is one counted line. SystemCount is the
// stock observed at counting time; the server never substitutes the
// live value.
type ReconciliationItemRequest struct {
	ProductID         id.ID  `json:"productId" binding:"required"`
	SystemCount       *int64 `json:"systemCount" binding:"required,gte=0"`
	PhysicalCount     *int64 `json:"physicalCount" binding:"required,gte=0"`
	DiscrepancyReason string `json:"discrepancyReason"`
	Notes             string `json:"notes"`
}

// CreateReconciliationRequest creates a reconciliation in DRAFT status.
type CreateReconciliationRequest struct {
	Title       string                      `json:"title" binding:"required"`
	Description string                      `json:"description"`
	Items       []ReconciliationItemRequest `json:"items" binding:"required,min=1,dive"`
}

// Inputs converts request items to service inputs.
func (r CreateReconciliationRequest) Inputs() []reconciliation.ItemInput {
	inputs := make([]reconciliation.ItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		inputs = append(inputs, reconciliation.ItemInput{
			ProductID:         item.ProductID,
			SystemCount:       *item.SystemCount,
			PhysicalCount:     *item.PhysicalCount,
			DiscrepancyReason: item.DiscrepancyReason,
			Notes:             item.Notes,
		})
	}
	return inputs
}

// RejectReconciliationRequest rejects a pending reconciliation.
type RejectReconciliationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// VerifyItemRequest flips an item's verified flag.
type VerifyItemRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// ReconciliationListQuery filters the reconciliation list.
type ReconciliationListQuery struct {
	Status      string `form:"status" binding:"omitempty,oneof=DRAFT PENDING APPROVED REJECTED"`
	CreatedByID string `form:"createdById" binding:"omitempty,uuid"`
	PaginationRequest
}

// Filter converts to the repository list filter.
func (q ReconciliationListQuery) Filter() (reconciliation.ListFilter, error) {
	filter := reconciliation.ListFilter{Page: q.Page()}

	if q.Status != "" {
		status := reconciliation.Status(q.Status)
		filter.Status = &status
	}
	if q.CreatedByID != "" {
		creatorID, err := id.Parse(q.CreatedByID)
		if err != nil {
			return filter, err
		}
		filter.CreatedByID = &creatorID
	}
	return filter, nil
}
