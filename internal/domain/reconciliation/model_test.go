package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

func TestAddItem_Discrepancy(t *testing.T) {
	doc := New("weekly count", "", id.New())
	cost := types.MustMoney("3.00")

	doc.AddItem(id.New(), 10, 7, cost, "damaged", "")
	doc.AddItem(id.New(), 10, 12, cost, "", "")
	doc.AddItem(id.New(), 10, 10, cost, "", "")

	shortage := doc.Items[0]
	assert.Equal(t, int64(-3), shortage.Discrepancy)
	require.NotNil(t, shortage.EstimatedImpact)
	assert.True(t, shortage.EstimatedImpact.Equal(types.MustMoney("9.00")))

	// Overages and exact matches carry no impact valuation.
	overage := doc.Items[1]
	assert.Equal(t, int64(2), overage.Discrepancy)
	assert.Nil(t, overage.EstimatedImpact)

	exact := doc.Items[2]
	assert.Equal(t, int64(0), exact.Discrepancy)
	assert.Nil(t, exact.EstimatedImpact)
}

func TestTotalShrinkage(t *testing.T) {
	doc := New("count", "", id.New())
	doc.AddItem(id.New(), 10, 8, types.MustMoney("2.00"), "", "")
	doc.AddItem(id.New(), 5, 2, types.MustMoney("1.50"), "", "")
	doc.AddItem(id.New(), 3, 9, types.MustMoney("10.00"), "", "")

	// 2*2.00 + 3*1.50; the overage contributes nothing.
	assert.True(t, doc.TotalShrinkage().Equal(types.MustMoney("8.50")))
}

func TestValidate(t *testing.T) {
	creator := id.New()

	tests := []struct {
		name  string
		doc   func() *Reconciliation
		valid bool
	}{
		{
			name: "valid",
			doc: func() *Reconciliation {
				d := New("count", "", creator)
				d.AddItem(id.New(), 5, 5, types.ZeroMoney(), "", "")
				return d
			},
			valid: true,
		},
		{
			name:  "missing title",
			doc:   func() *Reconciliation { d := New("", "", creator); d.AddItem(id.New(), 5, 5, types.ZeroMoney(), "", ""); return d },
			valid: false,
		},
		{
			name:  "no items",
			doc:   func() *Reconciliation { return New("count", "", creator) },
			valid: false,
		},
		{
			name: "negative count",
			doc: func() *Reconciliation {
				d := New("count", "", creator)
				d.AddItem(id.New(), -1, 5, types.ZeroMoney(), "", "")
				return d
			},
			valid: false,
		},
		{
			name: "nil product",
			doc: func() *Reconciliation {
				d := New("count", "", creator)
				d.AddItem(id.Nil(), 5, 5, types.ZeroMoney(), "", "")
				return d
			},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc().Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			}
		})
	}
}

func TestWorkflowTransitions(t *testing.T) {
	approver := id.New()

	t.Run("draft to pending", func(t *testing.T) {
		doc := New("count", "", id.New())
		require.NoError(t, doc.Submit())
		assert.Equal(t, StatusPending, doc.Status)
		assert.NotNil(t, doc.SubmittedAt)
	})

	t.Run("pending to approved", func(t *testing.T) {
		doc := New("count", "", id.New())
		require.NoError(t, doc.Submit())
		require.NoError(t, doc.Approve(approver))
		assert.Equal(t, StatusApproved, doc.Status)
		require.NotNil(t, doc.ApprovedByID)
		assert.Equal(t, approver, *doc.ApprovedByID)
		assert.NotNil(t, doc.ApprovedAt)
		assert.True(t, doc.IsTerminal())
	})

	t.Run("pending to rejected", func(t *testing.T) {
		doc := New("count", "", id.New())
		require.NoError(t, doc.Submit())
		require.NoError(t, doc.Reject(approver, "recount requested"))
		assert.Equal(t, StatusRejected, doc.Status)
		assert.Equal(t, "recount requested", doc.RejectionReason)
		assert.True(t, doc.IsTerminal())
	})

	t.Run("approve from draft fails", func(t *testing.T) {
		doc := New("count", "", id.New())
		err := doc.Approve(approver)
		assert.True(t, apperror.IsInvalidStateTransition(err))
		assert.Equal(t, StatusDraft, doc.Status)
	})

	t.Run("reject from draft fails", func(t *testing.T) {
		doc := New("count", "", id.New())
		err := doc.Reject(approver, "nope")
		assert.True(t, apperror.IsInvalidStateTransition(err))
	})

	t.Run("double submit fails", func(t *testing.T) {
		doc := New("count", "", id.New())
		require.NoError(t, doc.Submit())
		assert.True(t, apperror.IsInvalidStateTransition(doc.Submit()))
	})

	t.Run("terminal states are frozen", func(t *testing.T) {
		doc := New("count", "", id.New())
		require.NoError(t, doc.Submit())
		require.NoError(t, doc.Approve(approver))

		assert.True(t, apperror.IsInvalidStateTransition(doc.Submit()))
		assert.True(t, apperror.IsInvalidStateTransition(doc.Approve(approver)))
		assert.True(t, apperror.IsInvalidStateTransition(doc.Reject(approver, "late")))
	})
}
