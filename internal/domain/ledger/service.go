package ledger

import (
	"context"
	"fmt"
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/tx"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/audit"
	"stockpilot/internal/domain/catalog/product"
	"stockpilot/pkg/logger"
)

const productsTable = "products"

// Service implements the stock ledger primitives. Each public operation
// runs as one atomic unit of work: stock write, movement record, and
// audit entry commit together or not at all.
type Service struct {
	products  product.Repository
	movements Repository
	audit     audit.Recorder
	txManager tx.Manager
}

// NewService creates a new stock ledger service.
func NewService(products product.Repository, movements Repository, auditRec audit.Recorder, txManager tx.Manager) *Service {
	return &Service{
		products:  products,
		movements: movements,
		audit:     auditRec,
		txManager: txManager,
	}
}

// AddStock increments a product's stock by quantity and records an
// Addition movement. The increment is a true atomic increment at the
// store level, so no row lock is needed.
func (s *Service) AddStock(ctx context.Context, productID id.ID, quantity int64, userID id.ID, opts AddOptions) (*product.Product, *Addition, error) {
	if quantity <= 0 {
		return nil, nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", quantity)
	}

	var (
		p        *product.Product
		addition *Addition
	)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		updated, err := s.products.IncrementStock(ctx, productID, quantity)
		if err != nil {
			return err
		}
		p = updated

		addition = &Addition{
			ID:          id.New(),
			ProductID:   productID,
			Quantity:    quantity,
			TotalCost:   types.MoneyFromUnits(opts.CostPerUnit, quantity),
			Reason:      opts.Reason,
			Notes:       opts.Notes,
			ReferenceNo: opts.ReferenceNo,
			SupplierID:  opts.SupplierID,
			CreatedBy:   userID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.movements.CreateAddition(ctx, addition); err != nil {
			return fmt.Errorf("create addition: %w", err)
		}

		return s.recordStockAudit(ctx, userID, productID, p.Stock-quantity, p.Stock)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "stock added",
		"product_id", productID,
		"quantity", quantity,
		"new_stock", p.Stock,
	)
	return p, addition, nil
}

// RemoveStock decrements a product's stock by quantity. Fails with
// InsufficientStock when the decrement would take stock below zero.
// The product row is locked for the duration of the transaction.
func (s *Service) RemoveStock(ctx context.Context, productID id.ID, quantity int64, userID id.ID, opts AdjustOptions) (*product.Product, *Adjustment, error) {
	if quantity <= 0 {
		return nil, nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", quantity)
	}

	var (
		p          *product.Product
		adjustment *Adjustment
	)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		if current.Stock < quantity {
			return apperror.NewInsufficientStock(productID.String(), quantity, current.Stock)
		}

		oldStock := current.Stock
		newStock := oldStock - quantity

		p, err = s.products.SetStock(ctx, productID, newStock)
		if err != nil {
			return err
		}

		adjustment = s.newAdjustment(productID, MovementRemoval, quantity, oldStock, newStock, userID, opts)
		if err := s.movements.CreateAdjustment(ctx, adjustment); err != nil {
			return fmt.Errorf("create adjustment: %w", err)
		}

		return s.recordStockAudit(ctx, userID, productID, oldStock, newStock)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "stock removed",
		"product_id", productID,
		"quantity", quantity,
		"new_stock", p.Stock,
	)
	return p, adjustment, nil
}

// SetStock sets a product's stock to an absolute value and records an
// adjustment with the direction and magnitude of the change.
func (s *Service) SetStock(ctx context.Context, productID id.ID, newQuantity int64, userID id.ID, opts AdjustOptions) (*product.Product, *Adjustment, error) {
	if newQuantity < 0 {
		return nil, nil, apperror.NewValidation("stock cannot be negative").
			WithDetail("quantity", newQuantity)
	}

	var (
		p          *product.Product
		adjustment *Adjustment
	)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		oldStock := current.Stock
		delta := newQuantity - oldStock
		direction := MovementReduction
		if delta > 0 {
			direction = MovementAddition
		}
		magnitude := delta
		if magnitude < 0 {
			magnitude = -magnitude
		}

		p, err = s.products.SetStock(ctx, productID, newQuantity)
		if err != nil {
			return err
		}

		adjustment = s.newAdjustment(productID, direction, magnitude, oldStock, newQuantity, userID, opts)
		if err := s.movements.CreateAdjustment(ctx, adjustment); err != nil {
			return fmt.Errorf("create adjustment: %w", err)
		}

		return s.recordStockAudit(ctx, userID, productID, oldStock, newQuantity)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "stock set",
		"product_id", productID,
		"new_stock", p.Stock,
	)
	return p, adjustment, nil
}

// ApplyRecount sets a product's stock to the physical count captured
// during a reconciliation. Unlike SetStock, the recorded old quantity is
// the system count stored at counting time, not the live stock; approval
// trusts the count even if stock has moved since. Must be called inside
// an ambient transaction (reconciliation approval).
func (s *Service) ApplyRecount(ctx context.Context, productID id.ID, systemCount, physicalCount int64, userID id.ID, reason string) (*Adjustment, error) {
	// Lock the row even though the write is absolute; concurrent ledger
	// calls against the same product must serialize on it.
	if _, err := s.products.GetForUpdate(ctx, productID); err != nil {
		return nil, err
	}

	if _, err := s.products.SetStock(ctx, productID, physicalCount); err != nil {
		return nil, err
	}

	discrepancy := physicalCount - systemCount
	movementType := MovementReconciliationReduction
	if discrepancy >= 0 {
		movementType = MovementReconciliationAddition
	}
	magnitude := discrepancy
	if magnitude < 0 {
		magnitude = -magnitude
	}

	adjustment := s.newAdjustment(productID, movementType, magnitude, systemCount, physicalCount, userID, AdjustOptions{Reason: reason})
	if err := s.movements.CreateAdjustment(ctx, adjustment); err != nil {
		return nil, fmt.Errorf("create adjustment: %w", err)
	}

	if err := s.recordStockAudit(ctx, userID, productID, systemCount, physicalCount); err != nil {
		return nil, err
	}

	return adjustment, nil
}

// GetAdditionHistory returns receipt records for a product.
func (s *Service) GetAdditionHistory(ctx context.Context, productID id.ID, filter HistoryFilter) ([]Addition, error) {
	return s.movements.ListAdditionsByProduct(ctx, productID, filter)
}

// GetAdjustmentHistory returns correction records for a product.
func (s *Service) GetAdjustmentHistory(ctx context.Context, productID id.ID, filter HistoryFilter) ([]Adjustment, error) {
	return s.movements.ListAdjustmentsByProduct(ctx, productID, filter)
}

func (s *Service) newAdjustment(productID id.ID, movementType MovementType, quantity, oldQty, newQty int64, userID id.ID, opts AdjustOptions) *Adjustment {
	return &Adjustment{
		ID:          id.New(),
		ProductID:   productID,
		Type:        movementType,
		Quantity:    quantity,
		OldQuantity: oldQty,
		NewQuantity: newQty,
		Reason:      opts.Reason,
		Notes:       opts.Notes,
		Status:      StatusCompleted,
		CreatedBy:   userID,
		CreatedAt:   time.Now().UTC(),
	}
}

func (s *Service) recordStockAudit(ctx context.Context, userID, productID id.ID, oldStock, newStock int64) error {
	err := s.audit.Record(ctx, audit.Entry{
		Action:    audit.ActionUpdate,
		TableName: productsTable,
		RecordID:  productID,
		OldValues: map[string]any{"stock": oldStock},
		NewValues: map[string]any{"stock": newStock},
		UserID:    userID,
	})
	if err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}
