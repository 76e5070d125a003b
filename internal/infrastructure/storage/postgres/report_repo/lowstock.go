// Package report_repo provides PostgreSQL implementations for report
// queries.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/domain/catalog/product"
	"stockpilot/internal/domain/reports"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// lowStockConditions builds the shared WHERE clause for the page and
// metrics queries. Without an explicit threshold the comparison is
// column-to-column: stock <= min_stock.
func lowStockConditions(filter reports.LowStockFilter) squirrel.And {
	conditions := squirrel.And{
		squirrel.Eq{"archived": false},
	}

	if filter.Threshold != nil {
		conditions = append(conditions, squirrel.LtOrEq{"stock": *filter.Threshold})
	} else {
		conditions = append(conditions, squirrel.Expr("stock <= min_stock"))
	}

	if filter.CategoryID != nil {
		conditions = append(conditions, squirrel.Eq{"category_id": *filter.CategoryID})
	}
	if filter.BrandID != nil {
		conditions = append(conditions, squirrel.Eq{"brand_id": *filter.BrandID})
	}
	if filter.SupplierID != nil {
		conditions = append(conditions, squirrel.Eq{"supplier_id": *filter.SupplierID})
	}

	return conditions
}

// GetLowStockPage returns one page of matching products plus the total
// match count.
func (r *ReportRepo) GetLowStockPage(ctx context.Context, filter reports.LowStockFilter) ([]product.Product, int64, error) {
	conditions := lowStockConditions(filter)
	querier := r.txManager.GetQuerier(ctx)

	countQ := r.builder.Select("COUNT(*)").
		From(productsTable).
		Where(conditions)

	sql, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := querier.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count low stock: %w", err)
	}

	q := r.builder.Select(
		"id", "sku", "name", "stock", "min_stock", "cost", "price",
		"category_id", "brand_id", "supplier_id", "archived",
		"created_at", "updated_at",
	).From(productsTable).
		Where(conditions).
		OrderBy("stock ASC", "name ASC").
		Limit(uint64(filter.Page.Limit)).
		Offset(uint64(filter.Page.Offset))

	sql, args, err = q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var products []product.Product
	if err := pgxscan.Select(ctx, querier, &products, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select low stock: %w", err)
	}

	return products, total, nil
}

// GetLowStockMetrics aggregates over the full filtered set.
func (r *ReportRepo) GetLowStockMetrics(ctx context.Context, filter reports.LowStockFilter) (reports.LowStockMetrics, error) {
	var metrics reports.LowStockMetrics

	conditions := lowStockConditions(filter)
	q := r.builder.Select(
		"COUNT(*) FILTER (WHERE stock = 0) AS critical_stock",
		"COUNT(*) FILTER (WHERE stock > 0 AND stock <= min_stock) AS low_stock",
		"COALESCE(SUM(cost * stock), 0) AS total_value",
	).From(productsTable).
		Where(conditions)

	sql, args, err := q.ToSql()
	if err != nil {
		return metrics, fmt.Errorf("build metrics query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	err = querier.QueryRow(ctx, sql, args...).
		Scan(&metrics.CriticalStock, &metrics.LowStock, &metrics.TotalValue)
	if err != nil {
		return metrics, fmt.Errorf("aggregate low stock metrics: %w", err)
	}

	return metrics, nil
}

// Ensure interface compliance.
var _ reports.Repository = (*ReportRepo)(nil)
