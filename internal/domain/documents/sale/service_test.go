package sale

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
	"orfebre/internal/domain"
	"orfebre/internal/domain/catalogs/customer"
	"orfebre/internal/domain/documents"
	"orfebre/internal/domain/ledger"
	"orfebre/pkg/numerator"
)

// passthroughTx runs everything in-process; rollback is simulated by the
// memory stores checking their own invariants before mutating.
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
	var out []ledger.Movement
	for _, m := range r.movements {
		if m.ReferenceType == refType && m.ReferenceID != nil && *m.ReferenceID == refID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryLedgerRepo) HasMovements(ctx context.Context, productID id.ID) (bool, error) {
	for _, m := range r.movements {
		if m.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

type memorySaleRepo struct {
	sales map[id.ID]*Sale
}

func (r *memorySaleRepo) Create(ctx context.Context, s *Sale) error {
	if r.sales == nil {
		r.sales = make(map[id.ID]*Sale)
	}
	r.sales[s.ID] = s
	return nil
}

func (r *memorySaleRepo) GetByID(ctx context.Context, documentID id.ID) (*Sale, error) {
	s, ok := r.sales[documentID]
	if !ok {
		return nil, apperror.NewNotFound("sale", documentID.String())
	}
	return s, nil
}

func (r *memorySaleRepo) Delete(ctx context.Context, documentID id.ID) error {
	delete(r.sales, documentID)
	return nil
}

func (r *memorySaleRepo) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*Sale], error) {
	result := domain.ListResult[*Sale]{Limit: filter.Limit, Offset: filter.Offset}
	for _, s := range r.sales {
		result.Items = append(result.Items, s)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type stubCustomers struct {
	byID map[id.ID]*customer.Customer
}

func (s *stubCustomers) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	c, ok := s.byID[customerID]
	if !ok {
		return nil, apperror.NewNotFound("customer", customerID.String())
	}
	return c, nil
}

type stubNumbers struct {
	n int64
}

func (s *stubNumbers) GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
	s.n++
	return fmt.Sprintf("%s-%s-%05d", cfg.Prefix, period.Format("2006"), s.n), nil
}

type recordingSink struct {
	delivered []*Sale
	fail      error
}

func (s *recordingSink) DeliverSale(ctx context.Context, doc *Sale) error {
	if s.fail != nil {
		return s.fail
	}
	s.delivered = append(s.delivered, doc)
	return nil
}

type fixture struct {
	svc        *Service
	repo       *memorySaleRepo
	ledgerRepo *memoryLedgerRepo
	customers  *stubCustomers
	sink       *recordingSink
}

func newFixture() *fixture {
	txm := passthroughTx{}
	ledgerRepo := &memoryLedgerRepo{stock: make(map[id.ID]int64)}
	repo := &memorySaleRepo{}
	customers := &stubCustomers{byID: make(map[id.ID]*customer.Customer)}
	sink := &recordingSink{}
	svc := NewService(repo, customers, txm, ledger.NewService(ledgerRepo, txm), &stubNumbers{}, nil, sink)
	return &fixture{svc: svc, repo: repo, ledgerRepo: ledgerRepo, customers: customers, sink: sink}
}

func newSale(productID id.ID, qty int64, price string) *Sale {
	doc := New()
	doc.Lines = []Line{{ProductID: productID, Quantity: qty, UnitPrice: types.MustMoney(price)}}
	return doc
}

func TestCreate_TakesStockAndTotals(t *testing.T) {
	f := newFixture()
	productID := id.New()
	f.ledgerRepo.stock[productID] = 10

	doc := newSale(productID, 3, "45.90")
	doc.PaymentMethod = PaymentYape

	warnings, err := f.svc.Create(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "137.70", doc.Subtotal.String())
	assert.Equal(t, "137.70", doc.Total.String())
	assert.NotEmpty(t, doc.Number)
	assert.Equal(t, int64(7), f.ledgerRepo.stock[productID])
	require.Len(t, f.sink.delivered, 1)
}

func TestCreate_InsufficientStockAborts(t *testing.T) {
	f := newFixture()
	inStock := id.New()
	short := id.New()
	f.ledgerRepo.stock[inStock] = 10
	f.ledgerRepo.stock[short] = 1

	doc := New()
	doc.Lines = []Line{
		{ProductID: inStock, Quantity: 2, UnitPrice: types.MustMoney("10.00")},
		{ProductID: short, Quantity: 5, UnitPrice: types.MustMoney("10.00")},
	}

	_, err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Empty(t, f.sink.delivered)
}

func TestCreate_UnknownCustomerIsReferential(t *testing.T) {
	f := newFixture()
	productID := id.New()
	f.ledgerRepo.stock[productID] = 5

	missing := id.New()
	doc := newSale(productID, 1, "20.00")
	doc.CustomerID = &missing

	_, err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReferential, appErr.Code)
}

func TestCreate_DenormalizesCustomerName(t *testing.T) {
	f := newFixture()
	productID := id.New()
	f.ledgerRepo.stock[productID] = 5

	cust := customer.New("CLI-001", "Rosa Quispe")
	f.customers.byID[cust.ID] = cust

	doc := newSale(productID, 1, "20.00")
	doc.CustomerID = &cust.ID

	_, err := f.svc.Create(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "Rosa Quispe", doc.CustomerName)
}

func TestCreate_SinkFailureIsWarningOnly(t *testing.T) {
	f := newFixture()
	productID := id.New()
	f.ledgerRepo.stock[productID] = 5
	f.sink.fail = errors.New("connection refused")

	doc := newSale(productID, 2, "30.00")

	warnings, err := f.svc.Create(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, warnings, 1)

	// The sale committed regardless of the sink.
	assert.Equal(t, int64(3), f.ledgerRepo.stock[productID])
	_, err = f.svc.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
}

func TestCreate_InvalidPaymentMethod(t *testing.T) {
	f := newFixture()
	doc := newSale(id.New(), 1, "10.00")
	doc.PaymentMethod = "bitcoin"

	_, err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestCreate_InvalidQuantity(t *testing.T) {
	f := newFixture()
	doc := newSale(id.New(), 0, "10.00")

	_, err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestDelete_RestoresStock(t *testing.T) {
	f := newFixture()
	productID := id.New()
	f.ledgerRepo.stock[productID] = 10

	doc := newSale(productID, 4, "15.00")
	_, err := f.svc.Create(context.Background(), doc)
	require.NoError(t, err)
	require.Equal(t, int64(6), f.ledgerRepo.stock[productID])

	require.NoError(t, f.svc.Delete(context.Background(), doc.ID))
	assert.Equal(t, int64(10), f.ledgerRepo.stock[productID])

	_, err = f.svc.GetByID(context.Background(), doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}
