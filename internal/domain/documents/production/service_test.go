package production

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
	"orfebre/internal/domain"
	"orfebre/internal/domain/catalogs/product"
	"orfebre/internal/domain/documents"
	"orfebre/internal/domain/ledger"
	"orfebre/pkg/numerator"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryLedgerRepo struct {
	stock     map[id.ID]int64
	movements []ledger.Movement
}

func (r *memoryLedgerRepo) ApplyDelta(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	current, ok := r.stock[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	next := current + delta
	if next < 0 {
		return 0, apperror.NewInsufficientStock(productID.String(), -delta, current)
	}
	r.stock[productID] = next
	return next, nil
}

func (r *memoryLedgerRepo) InsertMovement(ctx context.Context, m ledger.Movement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *memoryLedgerRepo) GetBalance(ctx context.Context, productID id.ID) (int64, error) {
	return r.stock[productID], nil
}

func (r *memoryLedgerRepo) ListMovements(ctx context.Context, productID id.ID, limit, offset int) ([]ledger.Movement, error) {
	return nil, nil
}

func (r *memoryLedgerRepo) ListMovementsByReference(ctx context.Context, refType string, refID id.ID) ([]ledger.Movement, error) {
	return nil, nil
}

func (r *memoryLedgerRepo) HasMovements(ctx context.Context, productID id.ID) (bool, error) {
	return false, nil
}

type memoryRepo struct {
	docs map[id.ID]*Production
}

func (r *memoryRepo) Create(ctx context.Context, p *Production) error {
	if r.docs == nil {
		r.docs = make(map[id.ID]*Production)
	}
	r.docs[p.ID] = p
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, documentID id.ID) (*Production, error) {
	p, ok := r.docs[documentID]
	if !ok {
		return nil, apperror.NewNotFound("production", documentID.String())
	}
	return p, nil
}

func (r *memoryRepo) Delete(ctx context.Context, documentID id.ID) error {
	delete(r.docs, documentID)
	return nil
}

func (r *memoryRepo) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*Production], error) {
	result := domain.ListResult[*Production]{Limit: filter.Limit, Offset: filter.Offset}
	for _, p := range r.docs {
		result.Items = append(result.Items, p)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type stubNumbers struct {
	n int64
}

func (s *stubNumbers) GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
	s.n++
	return fmt.Sprintf("%s-%s-%05d", cfg.Prefix, period.Format("2006"), s.n), nil
}

// memoryProducts registers new products in the ledger fake at zero stock,
// the way the catalog service seeds a fresh product row.
type memoryProducts struct {
	ledgerRepo *memoryLedgerRepo
	created    []*product.Product
	failWith   error
}

func (r *memoryProducts) Create(ctx context.Context, p *product.Product) error {
	if r.failWith != nil {
		return r.failWith
	}
	if id.IsNil(p.ID) {
		p.ID = id.New()
	}
	r.ledgerRepo.stock[p.ID] = p.Stock
	r.created = append(r.created, p)
	return nil
}

type fixture struct {
	svc        *Service
	repo       *memoryRepo
	ledgerRepo *memoryLedgerRepo
	products   *memoryProducts
}

func newFixture() *fixture {
	txm := passthroughTx{}
	ledgerRepo := &memoryLedgerRepo{stock: make(map[id.ID]int64)}
	repo := &memoryRepo{}
	products := &memoryProducts{ledgerRepo: ledgerRepo}
	svc := NewService(repo, products, txm, ledger.NewService(ledgerRepo, txm), &stubNumbers{}, nil, types.Zero())
	return &fixture{svc: svc, repo: repo, ledgerRepo: ledgerRepo, products: products}
}

func TestCreate_CostsAndStocksBatch(t *testing.T) {
	f := newFixture()
	productID := id.New()
	f.ledgerRepo.stock[productID] = 0

	p := New()
	p.MaterialsCost = types.MustMoney("120.00")
	p.Hours = types.MustMoney("4")
	p.HourlyRate = types.MustMoney("30.00")
	p.ToolingCost = types.MustMoney("5.00")
	p.Lines = []Line{{ProductID: productID, Quantity: 10}}

	require.NoError(t, f.svc.Create(context.Background(), p))

	// 120 + 4*30 + 5 = 245, spread over 10 units
	assert.Equal(t, "245.00", p.TotalCost.String())
	assert.Equal(t, "24.50", p.UnitCost.String())
	assert.Equal(t, "PRO", p.Number[:3])
	assert.Equal(t, int64(10), f.ledgerRepo.stock[productID])
}

func TestCreate_DefaultHourlyRate(t *testing.T) {
	f := newFixture()
	productID := id.New()
	f.ledgerRepo.stock[productID] = 0

	p := New()
	p.MaterialsCost = types.MustMoney("50.00")
	p.Hours = types.MustMoney("4")
	p.Lines = []Line{{ProductID: productID, Quantity: 5}}

	require.NoError(t, f.svc.Create(context.Background(), p))

	// 50 + 4*25 (default rate) = 150
	assert.Equal(t, "150.00", p.TotalCost.String())
}

func TestCreate_RequiresLines(t *testing.T) {
	f := newFixture()

	p := New()
	p.MaterialsCost = types.MustMoney("50.00")

	err := f.svc.Create(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestCreate_UnknownProductAborts(t *testing.T) {
	f := newFixture()

	p := New()
	p.Lines = []Line{{ProductID: id.New(), Quantity: 3}}

	err := f.svc.Create(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_RegistersNewProductWithBatch(t *testing.T) {
	f := newFixture()

	p := New()
	p.MaterialsCost = types.MustMoney("200.00")
	p.Lines = []Line{{Quantity: 5, NewProduct: product.New("Arete Oro 18K")}}

	require.NoError(t, f.svc.Create(context.Background(), p))

	require.Len(t, f.products.created, 1)
	np := f.products.created[0]
	assert.Equal(t, np.ID, p.Lines[0].ProductID)

	// The product enters the catalog empty and the batch fills it.
	assert.Equal(t, int64(5), f.ledgerRepo.stock[np.ID])
	assert.Equal(t, "40.00", np.UnitCost.String())
}

func TestCreate_NewProductFailureAbortsBatch(t *testing.T) {
	f := newFixture()
	f.products.failWith = apperror.NewDuplicate("product", "code", "ANI-001")

	p := New()
	p.MaterialsCost = types.MustMoney("50.00")
	p.Lines = []Line{{Quantity: 3, NewProduct: product.New("Anillo Plata 950")}}

	err := f.svc.Create(context.Background(), p)
	require.Error(t, err)

	// Nothing posted: no document, no movements.
	_, err = f.svc.GetByID(context.Background(), p.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.ledgerRepo.movements)
}

func TestDelete_ReversesStock(t *testing.T) {
	f := newFixture()
	productID := id.New()
	f.ledgerRepo.stock[productID] = 0

	p := New()
	p.Lines = []Line{{ProductID: productID, Quantity: 8}}
	require.NoError(t, f.svc.Create(context.Background(), p))
	require.Equal(t, int64(8), f.ledgerRepo.stock[productID])

	require.NoError(t, f.svc.Delete(context.Background(), p.ID))
	assert.Equal(t, int64(0), f.ledgerRepo.stock[productID])

	_, err := f.svc.GetByID(context.Background(), p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_FailsWhenOutputAlreadySold(t *testing.T) {
	f := newFixture()
	productID := id.New()
	f.ledgerRepo.stock[productID] = 0

	p := New()
	p.Lines = []Line{{ProductID: productID, Quantity: 5}}
	require.NoError(t, f.svc.Create(context.Background(), p))

	// Simulate a sale consuming part of the batch.
	f.ledgerRepo.stock[productID] = 2

	err := f.svc.Delete(context.Background(), p.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// The document survives the failed reversal.
	_, err = f.svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
}
