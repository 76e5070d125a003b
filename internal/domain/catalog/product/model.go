// Package product provides the Product catalog entity and its repository port.
// Catalog metadata (name, images, categories) is owned by an external
// subsystem; the core only reads products and atomically mutates stock.
package product

import (
	"time"

	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

// Product represents a sellable item with on-hand stock.
type Product struct {
	ID         id.ID       `db:"id" json:"id"`
	SKU        string      `db:"sku" json:"sku"`
	Name       string      `db:"name" json:"name"`
	Stock      int64       `db:"stock" json:"stock"`
	MinStock   int64       `db:"min_stock" json:"minStock"`
	Cost       types.Money `db:"cost" json:"cost"`
	Price      types.Money `db:"price" json:"price"`
	CategoryID *id.ID      `db:"category_id" json:"categoryId,omitempty"`
	BrandID    *id.ID      `db:"brand_id" json:"brandId,omitempty"`
	SupplierID *id.ID      `db:"supplier_id" json:"supplierId,omitempty"`
	Archived   bool        `db:"archived" json:"archived"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updatedAt"`
}

// IsLow reports whether the product is at or below its reorder threshold.
func (p *Product) IsLow() bool {
	return p.Stock <= p.MinStock
}

// IsCritical reports whether the product is out of stock.
func (p *Product) IsCritical() bool {
	return p.Stock == 0
}

// InventoryValue returns cost multiplied by on-hand stock.
func (p *Product) InventoryValue() types.Money {
	return types.MoneyFromUnits(p.Cost, p.Stock)
}
