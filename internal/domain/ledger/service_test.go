package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/audit"
	"stockpilot/internal/domain/catalog/product"
)

// --- Fakes ---

type fakeProductRepo struct {
	products map[id.ID]*product.Product
}

func newFakeProductRepo(products ...*product.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[id.ID]*product.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) get(productID id.ID) (*product.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	return r.get(productID)
}

func (r *fakeProductRepo) GetForUpdate(_ context.Context, productID id.ID) (*product.Product, error) {
	return r.get(productID)
}

func (r *fakeProductRepo) IncrementStock(_ context.Context, productID id.ID, delta int64) (*product.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	p.Stock += delta
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) SetStock(_ context.Context, productID id.ID, stock int64) (*product.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	p.Stock = stock
	clone := *p
	return &clone, nil
}

type fakeMovementRepo struct {
	additions   []*Addition
	adjustments []*Adjustment
}

func (r *fakeMovementRepo) CreateAddition(_ context.Context, a *Addition) error {
	r.additions = append(r.additions, a)
	return nil
}

func (r *fakeMovementRepo) CreateAdjustment(_ context.Context, a *Adjustment) error {
	r.adjustments = append(r.adjustments, a)
	return nil
}

func (r *fakeMovementRepo) ListAdditionsByProduct(_ context.Context, productID id.ID, _ HistoryFilter) ([]Addition, error) {
	var out []Addition
	for _, a := range r.additions {
		if a.ProductID == productID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListAdjustmentsByProduct(_ context.Context, productID id.ID, _ HistoryFilter) ([]Adjustment, error) {
	var out []Adjustment
	for _, a := range r.adjustments {
		if a.ProductID == productID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeRecorder struct {
	entries []audit.Entry
}

func (r *fakeRecorder) Record(_ context.Context, e audit.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

// fakeTxManager runs the function directly; the fakes have no real
// transactions to manage.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Helpers ---

func testProduct(stock int64) *product.Product {
	return &product.Product{
		ID:    id.New(),
		SKU:   "SKU-001",
		Name:  "Widget",
		Stock: stock,
		Cost:  types.MustMoney("2.50"),
		Price: types.MustMoney("4.99"),
	}
}

func newTestService(products ...*product.Product) (*Service, *fakeProductRepo, *fakeMovementRepo, *fakeRecorder) {
	productRepo := newFakeProductRepo(products...)
	movementRepo := &fakeMovementRepo{}
	recorder := &fakeRecorder{}
	svc := NewService(productRepo, movementRepo, recorder, fakeTxManager{})
	return svc, productRepo, movementRepo, recorder
}

// --- AddStock ---

func TestAddStock(t *testing.T) {
	p := testProduct(10)
	svc, _, movements, recorder := newTestService(p)
	userID := id.New()

	updated, addition, err := svc.AddStock(context.Background(), p.ID, 5, userID, AddOptions{
		Reason:      "purchase",
		CostPerUnit: types.MustMoney("2.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(15), updated.Stock)
	require.NotNil(t, addition)
	assert.Equal(t, int64(5), addition.Quantity)
	assert.True(t, addition.TotalCost.Equal(types.MustMoney("12.50")))
	assert.Equal(t, userID, addition.CreatedBy)

	require.Len(t, movements.additions, 1)
	require.Len(t, recorder.entries, 1)
	assert.Equal(t, map[string]any{"stock": int64(10)}, recorder.entries[0].OldValues)
	assert.Equal(t, map[string]any{"stock": int64(15)}, recorder.entries[0].NewValues)
}

func TestAddStock_InvalidQuantity(t *testing.T) {
	p := testProduct(10)
	svc, productRepo, movements, recorder := newTestService(p)

	for _, quantity := range []int64{0, -3} {
		_, _, err := svc.AddStock(context.Background(), p.ID, quantity, id.New(), AddOptions{})
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}

	// Nothing changed
	current, err := productRepo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), current.Stock)
	assert.Empty(t, movements.additions)
	assert.Empty(t, recorder.entries)
}

func TestAddStock_UnknownProduct(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, _, err := svc.AddStock(context.Background(), id.New(), 5, id.New(), AddOptions{})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

// --- RemoveStock ---

func TestRemoveStock(t *testing.T) {
	p := testProduct(10)
	svc, _, movements, recorder := newTestService(p)
	userID := id.New()

	updated, adjustment, err := svc.RemoveStock(context.Background(), p.ID, 4, userID, AdjustOptions{Reason: "sale"})
	require.NoError(t, err)

	assert.Equal(t, int64(6), updated.Stock)
	require.NotNil(t, adjustment)
	assert.Equal(t, MovementRemoval, adjustment.Type)
	assert.Equal(t, int64(4), adjustment.Quantity)
	assert.Equal(t, int64(10), adjustment.OldQuantity)
	assert.Equal(t, int64(6), adjustment.NewQuantity)
	assert.Equal(t, StatusCompleted, adjustment.Status)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, map[string]any{"stock": int64(10)}, recorder.entries[0].OldValues)
	assert.Equal(t, map[string]any{"stock": int64(6)}, recorder.entries[0].NewValues)
	require.Len(t, movements.adjustments, 1)
}

func TestRemoveStock_Insufficient(t *testing.T) {
	p := testProduct(3)
	svc, productRepo, movements, recorder := newTestService(p)

	_, _, err := svc.RemoveStock(context.Background(), p.ID, 5, id.New(), AdjustOptions{})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(5), appErr.Details["requested"])
	assert.Equal(t, int64(3), appErr.Details["available"])

	// State untouched
	current, err := productRepo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), current.Stock)
	assert.Empty(t, movements.adjustments)
	assert.Empty(t, recorder.entries)
}

func TestRemoveStock_ExactBalance(t *testing.T) {
	p := testProduct(5)
	svc, _, _, _ := newTestService(p)

	updated, _, err := svc.RemoveStock(context.Background(), p.ID, 5, id.New(), AdjustOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.Stock)
}

// --- SetStock ---

func TestSetStock_Increase(t *testing.T) {
	p := testProduct(10)
	svc, _, _, _ := newTestService(p)

	updated, adjustment, err := svc.SetStock(context.Background(), p.ID, 25, id.New(), AdjustOptions{Reason: "recount"})
	require.NoError(t, err)

	assert.Equal(t, int64(25), updated.Stock)
	assert.Equal(t, MovementAddition, adjustment.Type)
	assert.Equal(t, int64(15), adjustment.Quantity)
	assert.Equal(t, int64(10), adjustment.OldQuantity)
	assert.Equal(t, int64(25), adjustment.NewQuantity)
}

func TestSetStock_Decrease(t *testing.T) {
	p := testProduct(10)
	svc, _, _, _ := newTestService(p)

	updated, adjustment, err := svc.SetStock(context.Background(), p.ID, 4, id.New(), AdjustOptions{})
	require.NoError(t, err)

	assert.Equal(t, int64(4), updated.Stock)
	assert.Equal(t, MovementReduction, adjustment.Type)
	assert.Equal(t, int64(6), adjustment.Quantity)
}

func TestSetStock_NoChange(t *testing.T) {
	p := testProduct(10)
	svc, _, movements, recorder := newTestService(p)

	updated, adjustment, err := svc.SetStock(context.Background(), p.ID, 10, id.New(), AdjustOptions{})
	require.NoError(t, err)

	// A zero-delta set still records the movement and audit pair.
	assert.Equal(t, int64(10), updated.Stock)
	assert.Equal(t, MovementReduction, adjustment.Type)
	assert.Equal(t, int64(0), adjustment.Quantity)
	assert.Len(t, movements.adjustments, 1)
	assert.Len(t, recorder.entries, 1)
}

func TestSetStock_Negative(t *testing.T) {
	p := testProduct(10)
	svc, _, _, _ := newTestService(p)

	_, _, err := svc.SetStock(context.Background(), p.ID, -1, id.New(), AdjustOptions{})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

// --- ApplyRecount ---

func TestApplyRecount_UsesStoredCounts(t *testing.T) {
	// Live stock has drifted to 20 since the count captured 10/7.
	p := testProduct(20)
	svc, productRepo, _, recorder := newTestService(p)

	adjustment, err := svc.ApplyRecount(context.Background(), p.ID, 10, 7, id.New(), "damaged")
	require.NoError(t, err)

	// Stock lands on the physical count, not live minus discrepancy.
	current, err := productRepo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), current.Stock)

	assert.Equal(t, MovementReconciliationReduction, adjustment.Type)
	assert.Equal(t, int64(3), adjustment.Quantity)
	assert.Equal(t, int64(10), adjustment.OldQuantity)
	assert.Equal(t, int64(7), adjustment.NewQuantity)

	// Audit records the stored counts as well.
	require.Len(t, recorder.entries, 1)
	assert.Equal(t, map[string]any{"stock": int64(10)}, recorder.entries[0].OldValues)
	assert.Equal(t, map[string]any{"stock": int64(7)}, recorder.entries[0].NewValues)
}

func TestApplyRecount_Overage(t *testing.T) {
	p := testProduct(10)
	svc, _, _, _ := newTestService(p)

	adjustment, err := svc.ApplyRecount(context.Background(), p.ID, 10, 12, id.New(), "found in backroom")
	require.NoError(t, err)
	assert.Equal(t, MovementReconciliationAddition, adjustment.Type)
	assert.Equal(t, int64(2), adjustment.Quantity)
}

func TestApplyRecount_ZeroDiscrepancy(t *testing.T) {
	p := testProduct(10)
	svc, _, _, _ := newTestService(p)

	adjustment, err := svc.ApplyRecount(context.Background(), p.ID, 10, 10, id.New(), "")
	require.NoError(t, err)
	assert.Equal(t, MovementReconciliationAddition, adjustment.Type)
	assert.Equal(t, int64(0), adjustment.Quantity)
}

// --- History ---

func TestGetHistory(t *testing.T) {
	p := testProduct(0)
	svc, _, _, _ := newTestService(p)
	ctx := context.Background()
	userID := id.New()

	_, _, err := svc.AddStock(ctx, p.ID, 10, userID, AddOptions{})
	require.NoError(t, err)
	_, _, err = svc.RemoveStock(ctx, p.ID, 3, userID, AdjustOptions{})
	require.NoError(t, err)

	additions, err := svc.GetAdditionHistory(ctx, p.ID, HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, additions, 1)

	adjustments, err := svc.GetAdjustmentHistory(ctx, p.ID, HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, adjustments, 1)
}
