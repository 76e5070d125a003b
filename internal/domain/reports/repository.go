package reports

import (
	"context"

	"stockpilot/internal/domain/catalog/product"
)

// Repository defines report data access.
type Repository interface {
	// GetLowStockPage returns one page of matching products plus the
	// total match count.
	GetLowStockPage(ctx context.Context, filter LowStockFilter) ([]product.Product, int64, error)

	// GetLowStockMetrics aggregates over the full filtered set, not
	// the page.
	GetLowStockMetrics(ctx context.Context, filter LowStockFilter) (LowStockMetrics, error)
}
