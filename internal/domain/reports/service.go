package reports

import (
	"context"
	"fmt"

	"stockpilot/internal/core/tx"
)

// Service generates stock reports. It never writes; queries run in a
// read-only transaction so the page and the metrics observe the same
// snapshot.
type Service struct {
	repo      Repository
	txManager tx.ReadOnlyManager
}

// NewService creates a new reports service.
func NewService(repo Repository, txManager tx.ReadOnlyManager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// GetLowStock returns products at or below their reorder threshold,
// paginated, with summary metrics computed over the full filtered set.
// An empty result is not an error.
func (s *Service) GetLowStock(ctx context.Context, filter LowStockFilter) (*LowStockReport, error) {
	filter.Page = filter.Page.Normalize()

	var report LowStockReport
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		items, total, err := s.repo.GetLowStockPage(ctx, filter)
		if err != nil {
			return fmt.Errorf("low stock page: %w", err)
		}

		metrics, err := s.repo.GetLowStockMetrics(ctx, filter)
		if err != nil {
			return fmt.Errorf("low stock metrics: %w", err)
		}

		report = LowStockReport{
			Items:   items,
			Total:   total,
			HasMore: int64(filter.Page.Offset+len(items)) < total,
			Metrics: metrics,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}
