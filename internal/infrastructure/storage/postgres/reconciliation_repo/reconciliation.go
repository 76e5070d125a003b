// Package reconciliation_repo provides the PostgreSQL implementation of
// the reconciliation repository.
package reconciliation_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/reconciliation"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const (
	headersTable = "stock_reconciliations"
	itemsTable   = "stock_reconciliation_items"
)

var headerColumns = []string{
	"id", "title", "description", "status", "created_by_id",
	"approved_by_id", "rejection_reason", "submitted_at", "approved_at",
	"created_at", "updated_at",
}

var itemColumns = []string{
	"id", "reconciliation_id", "product_id", "system_count",
	"physical_count", "discrepancy", "discrepancy_reason",
	"estimated_impact", "notes", "verified",
}

// ReconciliationRepo implements reconciliation.Repository.
type ReconciliationRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReconciliationRepo creates a new reconciliation repository.
func NewReconciliationRepo(txManager *postgres.TxManager) *ReconciliationRepo {
	return &ReconciliationRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists the header and all items.
func (r *ReconciliationRepo) Create(ctx context.Context, doc *reconciliation.Reconciliation) error {
	headerQ := r.builder.Insert(headersTable).
		Columns(headerColumns...).
		Values(
			doc.ID, doc.Title, doc.Description, doc.Status, doc.CreatedByID,
			doc.ApprovedByID, doc.RejectionReason, doc.SubmittedAt, doc.ApprovedAt,
			doc.CreatedAt, doc.UpdatedAt,
		)

	sql, args, err := headerQ.ToSql()
	if err != nil {
		return fmt.Errorf("build header insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError("insert "+headersTable, err)
	}

	if len(doc.Items) == 0 {
		return nil
	}

	itemsQ := r.builder.Insert(itemsTable).Columns(itemColumns...)
	for _, item := range doc.Items {
		itemsQ = itemsQ.Values(
			item.ID, item.ReconciliationID, item.ProductID, item.SystemCount,
			item.PhysicalCount, item.Discrepancy, item.DiscrepancyReason,
			item.EstimatedImpact, item.Notes, item.Verified,
		)
	}

	sql, args, err = itemsQ.ToSql()
	if err != nil {
		return fmt.Errorf("build items insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError("insert "+itemsTable, err)
	}

	return nil
}

// GetByID retrieves a header without items.
func (r *ReconciliationRepo) GetByID(ctx context.Context, reconciliationID id.ID) (*reconciliation.Reconciliation, error) {
	q := r.builder.Select(headerColumns...).
		From(headersTable).
		Where(squirrel.Eq{"id": reconciliationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc reconciliation.Reconciliation
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("reconciliation", reconciliationID)
		}
		return nil, fmt.Errorf("get reconciliation: %w", err)
	}

	return &doc, nil
}

// GetItems retrieves items in creation order. Item ids are UUIDv7, so
// ordering by id preserves insertion order.
func (r *ReconciliationRepo) GetItems(ctx context.Context, reconciliationID id.ID) ([]reconciliation.Item, error) {
	q := r.builder.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"reconciliation_id": reconciliationID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []reconciliation.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}

	return items, nil
}

func (r *ReconciliationRepo) headerUpdateQuery(doc *reconciliation.Reconciliation, from reconciliation.Status) squirrel.UpdateBuilder {
	return r.builder.Update(headersTable).
		Set("status", doc.Status).
		Set("approved_by_id", doc.ApprovedByID).
		Set("rejection_reason", doc.RejectionReason).
		Set("submitted_at", doc.SubmittedAt).
		Set("approved_at", doc.ApprovedAt).
		Set("updated_at", doc.UpdatedAt).
		Where(squirrel.Eq{"id": doc.ID, "status": from})
}

// UpdateHeader writes workflow state fields on the header. The status
// predicate makes the transition an atomic compare-and-set: a
// concurrent writer that already moved the document off `from` leaves
// nothing to update, and the caller's transaction aborts instead of
// committing a duplicate transition.
func (r *ReconciliationRepo) UpdateHeader(ctx context.Context, doc *reconciliation.Reconciliation, from reconciliation.Status) error {
	sql, args, err := r.headerUpdateQuery(doc, from).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError("update "+headersTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("reconciliation", doc.ID)
	}

	return nil
}

func (r *ReconciliationRepo) itemVerifiedQuery(reconciliationID, itemID id.ID, verified bool) squirrel.UpdateBuilder {
	return r.builder.Update(itemsTable).
		Set("verified", verified).
		Where(squirrel.Eq{"id": itemID, "reconciliation_id": reconciliationID})
}

// SetItemVerified flips the verified flag on one item. The update is
// scoped to the parent document so an item id from another
// reconciliation cannot be reached through it.
func (r *ReconciliationRepo) SetItemVerified(ctx context.Context, reconciliationID, itemID id.ID, verified bool) error {
	sql, args, err := r.itemVerifiedQuery(reconciliationID, itemID, verified).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError("update "+itemsTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("reconciliation item", itemID)
	}

	return nil
}

// List retrieves headers with filtering and pagination.
func (r *ReconciliationRepo) List(ctx context.Context, filter reconciliation.ListFilter) (domain.ListResult[*reconciliation.Reconciliation], error) {
	result := domain.ListResult[*reconciliation.Reconciliation]{
		Limit:  filter.Page.Limit,
		Offset: filter.Page.Offset,
	}

	conditions := squirrel.And{}
	if filter.Status != nil {
		conditions = append(conditions, squirrel.Eq{"status": *filter.Status})
	}
	if filter.CreatedByID != nil {
		conditions = append(conditions, squirrel.Eq{"created_by_id": *filter.CreatedByID})
	}

	countQ := r.builder.Select("COUNT(*)").From(headersTable)
	if len(conditions) > 0 {
		countQ = countQ.Where(conditions)
	}

	sql, args, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count reconciliations: %w", err)
	}

	q := r.builder.Select(headerColumns...).
		From(headersTable).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Page.Limit)).
		Offset(uint64(filter.Page.Offset))
	if len(conditions) > 0 {
		q = q.Where(conditions)
	}

	sql, args, err = q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select reconciliations: %w", err)
	}

	return result, nil
}

// Ensure interface compliance.
var _ reconciliation.Repository = (*ReconciliationRepo)(nil)
