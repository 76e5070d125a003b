package reconciliation_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/reconciliation"
)

func TestHeaderUpdateQuery_GuardsOnObservedStatus(t *testing.T) {
	repo := NewReconciliationRepo(nil)

	now := time.Now().UTC()
	approver := id.New()
	doc := &reconciliation.Reconciliation{
		ID:           id.New(),
		Status:       reconciliation.StatusApproved,
		ApprovedByID: &approver,
		ApprovedAt:   &now,
		UpdatedAt:    now,
	}

	sql, args, err := repo.headerUpdateQuery(doc, reconciliation.StatusPending).ToSql()
	require.NoError(t, err)

	// The transition is a compare-and-set: both the id and the status
	// observed at read time constrain the update.
	assert.Contains(t, sql, "WHERE id = ")
	assert.Contains(t, sql, "AND status = ")
	assert.Contains(t, args, doc.ID)
	assert.Contains(t, args, reconciliation.StatusPending)
}

func TestItemVerifiedQuery_ScopedToParent(t *testing.T) {
	repo := NewReconciliationRepo(nil)

	reconciliationID := id.New()
	itemID := id.New()

	sql, args, err := repo.itemVerifiedQuery(reconciliationID, itemID, true).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "reconciliation_id = ")
	assert.Contains(t, args, reconciliationID)
	assert.Contains(t, args, itemID)
}
