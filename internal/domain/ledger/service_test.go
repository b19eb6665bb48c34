package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
)

// memoryRepo keeps balances and movements in memory and enforces the
// non-negative invariant the way the SQL conditional update does.
type memoryRepo struct {
	balances  map[id.ID]int64
	movements []Movement
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{balances: make(map[id.ID]int64)}
}

func (r *memoryRepo) ApplyDelta(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	current, ok := r.balances[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	if current+delta < 0 {
		return 0, apperror.NewInsufficientStock(productID.String(), -delta, current)
	}
	r.balances[productID] = current + delta
	return r.balances[productID], nil
}

func (r *memoryRepo) InsertMovement(ctx context.Context, m Movement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *memoryRepo) GetBalance(ctx context.Context, productID id.ID) (int64, error) {
	current, ok := r.balances[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	return current, nil
}

func (r *memoryRepo) ListMovements(ctx context.Context, productID id.ID, limit, offset int) ([]Movement, error) {
	var out []Movement
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].ProductID == productID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *memoryRepo) ListMovementsByReference(ctx context.Context, refType string, refID id.ID) ([]Movement, error) {
	var out []Movement
	for _, m := range r.movements {
		if m.ReferenceType == refType && m.ReferenceID != nil && *m.ReferenceID == refID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryRepo) HasMovements(ctx context.Context, productID id.ID) (bool, error) {
	for _, m := range r.movements {
		if m.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// passthroughTx runs the function directly, matching the nested-reuse
// behavior of the real transaction manager.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestApply_RecordsMovement(t *testing.T) {
	repo := newMemoryRepo()
	productID := id.New()
	repo.balances[productID] = 5

	svc := NewService(repo, passthroughTx{})

	m, err := svc.Apply(context.Background(), Delta{
		ProductID: productID,
		Delta:     3,
		Reason:    ReasonPurchase,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 8, m.StockAfter)

	balance, err := svc.Balance(context.Background(), productID)
	require.NoError(t, err)
	assert.EqualValues(t, 8, balance)

	movements, err := svc.Movements(context.Background(), productID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, ReasonPurchase, movements[0].Reason)
}

func TestApply_InsufficientStock(t *testing.T) {
	repo := newMemoryRepo()
	productID := id.New()
	repo.balances[productID] = 2

	svc := NewService(repo, passthroughTx{})

	_, err := svc.Apply(context.Background(), Delta{
		ProductID: productID,
		Delta:     -3,
		Reason:    ReasonSale,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Failed delta leaves no movement behind.
	movements, err := svc.Movements(context.Background(), productID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestApply_UnknownProduct(t *testing.T) {
	svc := NewService(newMemoryRepo(), passthroughTx{})

	_, err := svc.Apply(context.Background(), Delta{
		ProductID: id.New(),
		Delta:     1,
		Reason:    ReasonPurchase,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelta_Validate(t *testing.T) {
	productID := id.New()

	tests := []struct {
		name  string
		delta Delta
		ok    bool
	}{
		{"valid production", Delta{ProductID: productID, Delta: 2, Reason: ReasonProduction}, true},
		{"zero delta", Delta{ProductID: productID, Delta: 0, Reason: ReasonSale}, false},
		{"nil product", Delta{Delta: 1, Reason: ReasonSale}, false},
		{"bad reason", Delta{ProductID: productID, Delta: 1, Reason: "theft"}, false},
		{"manual down without note", Delta{ProductID: productID, Delta: -1, Reason: ReasonManualAdjustment}, false},
		{"manual down with note", Delta{ProductID: productID, Delta: -1, Reason: ReasonManualAdjustment, Note: "broken clasp"}, true},
		{"manual up without note", Delta{ProductID: productID, Delta: 1, Reason: ReasonManualAdjustment}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.delta.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
