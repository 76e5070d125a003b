package dto

import (
	"time"

	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/catalog/product"
	"stockpilot/internal/domain/ledger"
)

// AddStockRequest increments stock by a positive quantity.
type AddStockRequest struct {
	Quantity    int64       `json:"quantity" binding:"required,gt=0"`
	Reason      string      `json:"reason"`
	Notes       string      `json:"notes"`
	ReferenceNo string      `json:"referenceNo"`
	SupplierID  *id.ID      `json:"supplierId"`
	CostPerUnit types.Money `json:"costPerUnit"`
}

// Options converts request attributes for the ledger.
func (r AddStockRequest) Options() ledger.AddOptions {
	return ledger.AddOptions{
		Reason:      r.Reason,
		Notes:       r.Notes,
		ReferenceNo: r.ReferenceNo,
		SupplierID:  r.SupplierID,
		CostPerUnit: r.CostPerUnit,
	}
}

// RemoveStockRequest decrements stock by a positive quantity.
type RemoveStockRequest struct {
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
	Reason   string `json:"reason"`
	Notes    string `json:"notes"`
}

// SetStockRequest sets stock to an absolute value.
type SetStockRequest struct {
	Quantity *int64 `json:"quantity" binding:"required,gte=0"`
	Reason   string `json:"reason"`
	Notes    string `json:"notes"`
}

// StockMovementResponse is returned by every ledger mutation: the
// product's new state plus the movement record it produced.
type StockMovementResponse struct {
	Product  *product.Product `json:"product"`
	Movement any              `json:"movement"`
}

// HistoryQuery selects movement history.
type HistoryQuery struct {
	FromDate *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"toDate" time_format:"2006-01-02"`
	PaginationRequest
}

// Filter converts to the ledger history filter.
func (q HistoryQuery) Filter() ledger.HistoryFilter {
	page := q.Page()
	return ledger.HistoryFilter{
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
}
