// Package reports provides read-only query surfaces over stock state.
package reports

import (
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/catalog/product"
)

// LowStockFilter selects products needing reorder attention.
//
// When Threshold is set, products with stock at or below it are
// selected. Otherwise each product's own min_stock acts as the
// threshold (a column-to-column comparison).
type LowStockFilter struct {
	CategoryID *id.ID
	BrandID    *id.ID
	SupplierID *id.ID
	Threshold  *int64
	Page       domain.Page
}

// LowStockMetrics summarizes the full filtered result set.
type LowStockMetrics struct {
	// CriticalStock counts products that are completely out of stock.
	CriticalStock int64 `json:"criticalStock"`

	// LowStock counts products above zero but at or below min_stock.
	LowStock int64 `json:"lowStock"`

	// TotalValue is the summed cost-basis value (cost times stock)
	// of the selected products.
	TotalValue types.Money `json:"totalValue"`
}

// LowStockReport is the aggregator's full response.
type LowStockReport struct {
	Items   []product.Product `json:"items"`
	Total   int64             `json:"total"`
	HasMore bool              `json:"hasMore"`
	Metrics LowStockMetrics   `json:"metrics"`
}
