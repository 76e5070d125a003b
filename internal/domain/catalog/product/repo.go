package product

import (
	"context"

	"stockpilot/internal/core/id"
)

// Repository defines stock-level access to products.
//
// The stock field is the only contended resource in the system; every
// write path here must run inside a transaction managed by tx.Manager.
type Repository interface {
	// GetByID retrieves a product without locking.
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// GetForUpdate retrieves a product with a row-level lock
	// (SELECT ... FOR UPDATE). Required before any read-modify-write
	// of stock to prevent lost updates under concurrency.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	// IncrementStock atomically adds delta to stock at the store level
	// and returns the updated product. Safe without a prior lock.
	IncrementStock(ctx context.Context, productID id.ID, delta int64) (*Product, error)

	// SetStock writes an absolute stock value and returns the updated
	// product. Callers must hold the row lock from GetForUpdate.
	SetStock(ctx context.Context, productID id.ID, stock int64) (*Product, error)
}
