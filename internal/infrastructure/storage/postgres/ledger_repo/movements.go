// Package ledger_repo provides the PostgreSQL implementation of the
// stock movement repository. Movement tables are append-only.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/ledger"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const (
	additionsTable   = "stock_additions"
	adjustmentsTable = "stock_adjustments"
)

// MovementRepo implements ledger.Repository.
type MovementRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateAddition inserts a receipt record.
func (r *MovementRepo) CreateAddition(ctx context.Context, a *ledger.Addition) error {
	q := r.builder.Insert(additionsTable).
		Columns(
			"id", "product_id", "quantity", "total_cost",
			"reason", "notes", "reference_no", "supplier_id",
			"created_by", "created_at",
		).
		Values(
			a.ID, a.ProductID, a.Quantity, a.TotalCost,
			a.Reason, a.Notes, a.ReferenceNo, a.SupplierID,
			a.CreatedBy, a.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError("insert "+additionsTable, err)
	}

	return nil
}

// CreateAdjustment inserts a correction record.
func (r *MovementRepo) CreateAdjustment(ctx context.Context, a *ledger.Adjustment) error {
	q := r.builder.Insert(adjustmentsTable).
		Columns(
			"id", "product_id", "type", "quantity",
			"old_quantity", "new_quantity", "reason", "notes",
			"status", "created_by", "created_at",
		).
		Values(
			a.ID, a.ProductID, a.Type, a.Quantity,
			a.OldQuantity, a.NewQuantity, a.Reason, a.Notes,
			a.Status, a.CreatedBy, a.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError("insert "+adjustmentsTable, err)
	}

	return nil
}

// ListAdditionsByProduct returns receipt history, newest first.
func (r *MovementRepo) ListAdditionsByProduct(ctx context.Context, productID id.ID, filter ledger.HistoryFilter) ([]ledger.Addition, error) {
	q := r.builder.Select(
		"id", "product_id", "quantity", "total_cost",
		"reason", "notes", "reference_no", "supplier_id",
		"created_by", "created_at",
	).From(additionsTable).
		Where(squirrel.Eq{"product_id": productID})

	q = applyHistoryFilter(q, filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var additions []ledger.Addition
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &additions, sql, args...); err != nil {
		return nil, fmt.Errorf("select additions: %w", err)
	}

	return additions, nil
}

// ListAdjustmentsByProduct returns correction history, newest first.
func (r *MovementRepo) ListAdjustmentsByProduct(ctx context.Context, productID id.ID, filter ledger.HistoryFilter) ([]ledger.Adjustment, error) {
	q := r.builder.Select(
		"id", "product_id", "type", "quantity",
		"old_quantity", "new_quantity", "reason", "notes",
		"status", "created_by", "created_at",
	).From(adjustmentsTable).
		Where(squirrel.Eq{"product_id": productID})

	q = applyHistoryFilter(q, filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var adjustments []ledger.Adjustment
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &adjustments, sql, args...); err != nil {
		return nil, fmt.Errorf("select adjustments: %w", err)
	}

	return adjustments, nil
}

func applyHistoryFilter(q squirrel.SelectBuilder, filter ledger.HistoryFilter) squirrel.SelectBuilder {
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}

	q = q.OrderBy("created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return q
}

// Ensure interface compliance.
var _ ledger.Repository = (*MovementRepo)(nil)
