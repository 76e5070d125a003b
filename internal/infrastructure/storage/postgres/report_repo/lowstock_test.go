package report_repo

import (
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/reports"
)

func buildWhere(t *testing.T, filter reports.LowStockFilter) (string, []any) {
	t.Helper()

	sql, args, err := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select("id").
		From(productsTable).
		Where(lowStockConditions(filter)).
		ToSql()
	require.NoError(t, err)
	return sql, args
}

func TestLowStockConditions_Default(t *testing.T) {
	sql, args := buildWhere(t, reports.LowStockFilter{})

	assert.Contains(t, sql, "archived = $1")
	assert.Contains(t, sql, "stock <= min_stock")
	assert.Equal(t, []any{false}, args)
}

func TestLowStockConditions_ExplicitThreshold(t *testing.T) {
	threshold := int64(25)
	sql, args := buildWhere(t, reports.LowStockFilter{Threshold: &threshold})

	assert.Contains(t, sql, "stock <= $2")
	assert.NotContains(t, sql, "min_stock")
	assert.Equal(t, []any{false, int64(25)}, args)
}

func TestLowStockConditions_DimensionFilters(t *testing.T) {
	categoryID := id.New()
	brandID := id.New()
	supplierID := id.New()

	sql, args := buildWhere(t, reports.LowStockFilter{
		CategoryID: &categoryID,
		BrandID:    &brandID,
		SupplierID: &supplierID,
	})

	assert.Contains(t, sql, "category_id = ")
	assert.Contains(t, sql, "brand_id = ")
	assert.Contains(t, sql, "supplier_id = ")
	assert.Len(t, args, 4)
	assert.Contains(t, args, categoryID)
}

func TestLowStockPageQuery_Shape(t *testing.T) {
	filter := reports.LowStockFilter{}
	filter.Page.Limit = 20
	filter.Page.Offset = 40

	sql, _, err := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select("id", "sku", "name", "stock").
		From(productsTable).
		Where(lowStockConditions(filter)).
		OrderBy("stock ASC", "name ASC").
		Limit(uint64(filter.Page.Limit)).
		Offset(uint64(filter.Page.Offset)).
		ToSql()
	require.NoError(t, err)

	assert.True(t, strings.Contains(sql, "ORDER BY stock ASC, name ASC"))
	assert.Contains(t, sql, "LIMIT 20")
	assert.Contains(t, sql, "OFFSET 40")
}
