package dto

import (
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/reports"
)

// LowStockQuery filters the low stock report. Without an explicit
// threshold each product's own minStock acts as its threshold.
type LowStockQuery struct {
	CategoryID string `form:"categoryId" binding:"omitempty,uuid"`
	BrandID    string `form:"brandId" binding:"omitempty,uuid"`
	SupplierID string `form:"supplierId" binding:"omitempty,uuid"`
	Threshold  *int64 `form:"threshold" binding:"omitempty,gte=0"`
	PaginationRequest
}

// Filter converts to the reports filter.
func (q LowStockQuery) Filter() (reports.LowStockFilter, error) {
	filter := reports.LowStockFilter{
		Threshold: q.Threshold,
		Page:      q.Page(),
	}

	if q.CategoryID != "" {
		categoryID, err := id.Parse(q.CategoryID)
		if err != nil {
			return filter, err
		}
		filter.CategoryID = &categoryID
	}
	if q.BrandID != "" {
		brandID, err := id.Parse(q.BrandID)
		if err != nil {
			return filter, err
		}
		filter.BrandID = &brandID
	}
	if q.SupplierID != "" {
		supplierID, err := id.Parse(q.SupplierID)
		if err != nil {
			return filter, err
		}
		filter.SupplierID = &supplierID
	}
	return filter, nil
}

// AuditHistoryQuery bounds an audit trail lookup.
type AuditHistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// EffectiveLimit returns the requested limit or the default.
func (q AuditHistoryQuery) EffectiveLimit() int {
	if q.Limit <= 0 {
		return 50
	}
	return q.Limit
}
