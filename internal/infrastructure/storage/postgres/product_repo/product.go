// Package product_repo provides the PostgreSQL implementation of the
// product repository port.
package product_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/catalog/product"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productColumns = []string{
	"id", "sku", "name", "stock", "min_stock", "cost", "price",
	"category_id", "brand_id", "supplier_id", "archived",
	"created_at", "updated_at",
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a product without locking.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

// GetForUpdate retrieves a product with a pessimistic row lock. Must be
// called inside a transaction; the lock is held until commit or rollback.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	sql := `
		SELECT id, sku, name, stock, min_stock, cost, price,
		       category_id, brand_id, supplier_id, archived,
		       created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, productID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	return &p, nil
}

// IncrementStock atomically adds delta to stock at the store level.
func (r *ProductRepo) IncrementStock(ctx context.Context, productID id.ID, delta int64) (*product.Product, error) {
	sql := `
		UPDATE products
		SET stock = stock + $1, updated_at = now()
		WHERE id = $2
		RETURNING id, sku, name, stock, min_stock, cost, price,
		          category_id, brand_id, supplier_id, archived,
		          created_at, updated_at
	`

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, delta, productID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("increment stock: %w", err)
	}

	return &p, nil
}

// SetStock writes an absolute stock value.
func (r *ProductRepo) SetStock(ctx context.Context, productID id.ID, stock int64) (*product.Product, error) {
	sql := `
		UPDATE products
		SET stock = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, sku, name, stock, min_stock, cost, price,
		          category_id, brand_id, supplier_id, archived,
		          created_at, updated_at
	`

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, stock, productID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("set stock: %w", err)
	}

	return &p, nil
}

// Ensure interface compliance.
var _ product.Repository = (*ProductRepo)(nil)
