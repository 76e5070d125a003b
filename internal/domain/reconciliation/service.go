package reconciliation

import (
	"context"
	"fmt"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/tx"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/audit"
	"stockpilot/internal/domain/catalog/product"
	"stockpilot/internal/domain/ledger"
	"stockpilot/pkg/logger"
)

const reconciliationsTable = "stock_reconciliations"

// ItemInput is one counted line supplied by the caller. SystemCount is
// the stock the counter saw at counting time; it is stored verbatim and
// never re-read at approval.
type ItemInput struct {
	ProductID         id.ID
	SystemCount       int64
	PhysicalCount     int64
	DiscrepancyReason string
	Notes             string
}

// Service drives the reconciliation workflow on top of the stock ledger.
type Service struct {
	repo      Repository
	products  product.Repository
	ledger    *ledger.Service
	audit     audit.Recorder
	txManager tx.Manager
}

// NewService creates a new reconciliation service.
func NewService(repo Repository, products product.Repository, ledgerSvc *ledger.Service, auditRec audit.Recorder, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		ledger:    ledgerSvc,
		audit:     auditRec,
		txManager: txManager,
	}
}

// Create persists a new reconciliation in DRAFT status with all items.
// No stock is mutated at creation time. Item discrepancies and shrinkage
// impact are computed here and fixed for the document's lifetime.
func (s *Service) Create(ctx context.Context, title, description string, userID id.ID, items []ItemInput) (*Reconciliation, error) {
	doc := New(title, description, userID)

	for _, in := range items {
		p, err := s.products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		doc.AddItem(in.ProductID, in.SystemCount, in.PhysicalCount, p.Cost, in.DiscrepancyReason, in.Notes)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create reconciliation: %w", err)
		}
		return s.recordAudit(ctx, userID, doc.ID, audit.ActionCreate, nil, map[string]any{
			"status": string(doc.Status),
			"title":  doc.Title,
			"items":  len(doc.Items),
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "reconciliation created",
		"id", doc.ID,
		"items", len(doc.Items),
	)
	return doc, nil
}

// Submit transitions a DRAFT reconciliation to PENDING.
func (s *Service) Submit(ctx context.Context, reconciliationID, actorID id.ID) (*Reconciliation, error) {
	var doc *Reconciliation

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetByID(ctx, reconciliationID)
		if err != nil {
			return err
		}

		prev := doc.Status
		if err := doc.Submit(); err != nil {
			return err
		}
		if err := s.repo.UpdateHeader(ctx, doc, prev); err != nil {
			return fmt.Errorf("update header: %w", err)
		}
		return s.recordAudit(ctx, actorID, doc.ID, audit.ActionUpdate,
			map[string]any{"status": string(prev)},
			map[string]any{"status": string(doc.Status)},
		)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "reconciliation submitted", "id", doc.ID)
	return doc, nil
}

// Approve applies every item's stored physical count to the ledger and
// transitions the header to APPROVED. The whole operation is one atomic
// unit; a failure on any item (a deleted product, for instance) rolls
// back all previously applied items and the header.
func (s *Service) Approve(ctx context.Context, reconciliationID, approverID id.ID) (*Reconciliation, error) {
	var doc *Reconciliation

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetByID(ctx, reconciliationID)
		if err != nil {
			return err
		}

		prev := doc.Status
		if err := doc.Approve(approverID); err != nil {
			return err
		}

		doc.Items, err = s.repo.GetItems(ctx, reconciliationID)
		if err != nil {
			return fmt.Errorf("get items: %w", err)
		}

		for _, item := range doc.Items {
			_, err := s.ledger.ApplyRecount(ctx,
				item.ProductID,
				item.SystemCount,
				item.PhysicalCount,
				approverID,
				item.DiscrepancyReason,
			)
			if err != nil {
				return fmt.Errorf("apply item %s: %w", item.ID, err)
			}
		}

		if err := s.repo.UpdateHeader(ctx, doc, prev); err != nil {
			return fmt.Errorf("update header: %w", err)
		}
		return s.recordAudit(ctx, approverID, doc.ID, audit.ActionApprove,
			map[string]any{"status": string(prev)},
			map[string]any{"status": string(doc.Status)},
		)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "reconciliation approved",
		"id", doc.ID,
		"items", len(doc.Items),
	)
	return doc, nil
}

// Reject transitions a PENDING reconciliation to REJECTED. Stock is
// untouched.
func (s *Service) Reject(ctx context.Context, reconciliationID, approverID id.ID, reason string) (*Reconciliation, error) {
	var doc *Reconciliation

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetByID(ctx, reconciliationID)
		if err != nil {
			return err
		}

		prev := doc.Status
		if err := doc.Reject(approverID, reason); err != nil {
			return err
		}
		if err := s.repo.UpdateHeader(ctx, doc, prev); err != nil {
			return fmt.Errorf("update header: %w", err)
		}
		return s.recordAudit(ctx, approverID, doc.ID, audit.ActionReject,
			map[string]any{"status": string(prev)},
			map[string]any{"status": string(doc.Status), "reason": reason},
		)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "reconciliation rejected", "id", doc.ID)
	return doc, nil
}

// VerifyItem marks a single item as double-checked. Allowed only while
// the header is non-terminal.
func (s *Service) VerifyItem(ctx context.Context, reconciliationID, itemID id.ID, verified bool) error {
	doc, err := s.repo.GetByID(ctx, reconciliationID)
	if err != nil {
		return err
	}
	if doc.IsTerminal() {
		return apperror.NewConflict("reconciliation is finalized and its items cannot change").
			WithDetail("status", string(doc.Status))
	}
	return s.repo.SetItemVerified(ctx, doc.ID, itemID, verified)
}

// GetByID retrieves a reconciliation with its items.
func (s *Service) GetByID(ctx context.Context, reconciliationID id.ID) (*Reconciliation, error) {
	doc, err := s.repo.GetByID(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	doc.Items, err = s.repo.GetItems(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return doc, nil
}

// List retrieves reconciliation headers with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Reconciliation], error) {
	filter.Page = filter.Page.Normalize()
	return s.repo.List(ctx, filter)
}

func (s *Service) recordAudit(ctx context.Context, userID, recordID id.ID, action audit.Action, oldValues, newValues map[string]any) error {
	err := s.audit.Record(ctx, audit.Entry{
		Action:    action,
		TableName: reconciliationsTable,
		RecordID:  recordID,
		OldValues: oldValues,
		NewValues: newValues,
		UserID:    userID,
	})
	if err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}
