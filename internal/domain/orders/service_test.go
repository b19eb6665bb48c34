package orders

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
	"orfebre/internal/domain/catalogs/customer"
	"orfebre/pkg/numerator"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryRepo struct {
	orders map[id.ID]*Order
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{orders: make(map[id.ID]*Order)}
}

func (r *memoryRepo) Create(ctx context.Context, o *Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("order", orderID.String())
	}
	clone := *o
	return &clone, nil
}

func (r *memoryRepo) Update(ctx context.Context, o *Order) error {
	if _, ok := r.orders[o.ID]; !ok {
		return apperror.NewNotFound("order", o.ID.String())
	}
	r.orders[o.ID] = o
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, orderID id.ID) error {
	delete(r.orders, orderID)
	return nil
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error) {
	result := domain.ListResult[*Order]{Limit: filter.Limit, Offset: filter.Offset}
	for _, o := range r.orders {
		result.Items = append(result.Items, o)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *memoryRepo) PendingBalance(ctx context.Context, customerID id.ID) (types.Money, error) {
	total := types.Zero()
	for _, o := range r.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID && o.IsOpen() {
			total = total.Add(o.Balance)
		}
	}
	return total, nil
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

func newTestService(repo *memoryRepo, customers *stubCustomers) *Service {
	return NewService(repo, customers, passthroughTx{}, &stubNumbers{}, nil)
}

func newOrder(description, total, advance string) *Order {
	o := New()
	o.Description = description
	o.Total = types.MustMoney(total)
	o.Advance = types.MustMoney(advance)
	return o
}

func TestCreate_ComputesBalance(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubCustomers{})

	o := newOrder("Anillo de compromiso oro 18k", "800.00", "500.00")
	require.NoError(t, svc.Create(context.Background(), o))

	assert.Equal(t, "300.00", o.Balance.String())
	assert.Equal(t, StatusPendiente, o.Status)
	assert.Equal(t, "PED", o.Number[:3])
}

func TestCreate_OverpaymentAllowed(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubCustomers{})

	o := newOrder("Aros de matrimonio", "250.00", "300.00")
	require.NoError(t, svc.Create(context.Background(), o))
	assert.Equal(t, "-50.00", o.Balance.String())
}

func TestCreate_UnknownCustomerIsReferential(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubCustomers{byID: map[id.ID]*customer.Customer{}})

	missing := id.New()
	o := newOrder("Collar con dije", "100.00", "0")
	o.CustomerID = &missing

	err := svc.Create(context.Background(), o)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReferential, appErr.Code)
}

func TestChangeStatus_Lifecycle(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubCustomers{})

	o := newOrder("Pulsera grabada", "150.00", "50.00")
	require.NoError(t, svc.Create(context.Background(), o))

	updated, err := svc.ChangeStatus(context.Background(), o.ID, StatusEnProceso)
	require.NoError(t, err)
	assert.Equal(t, StatusEnProceso, updated.Status)

	updated, err = svc.ChangeStatus(context.Background(), o.ID, StatusEntregado)
	require.NoError(t, err)
	assert.Equal(t, StatusEntregado, updated.Status)
}

func TestChangeStatus_TerminalStatesLocked(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubCustomers{})

	o := newOrder("Dije personalizado", "90.00", "90.00")
	require.NoError(t, svc.Create(context.Background(), o))

	_, err := svc.ChangeStatus(context.Background(), o.ID, StatusEntregado)
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), o.ID, StatusPendiente)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestChangeStatus_UnknownStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubCustomers{})

	o := newOrder("Arete solitario", "60.00", "0")
	require.NoError(t, svc.Create(context.Background(), o))

	_, err := svc.ChangeStatus(context.Background(), o.ID, "perdido")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestDelete_DeliveredOrderBlocked(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubCustomers{})

	o := newOrder("Cadena de plata", "120.00", "120.00")
	require.NoError(t, svc.Create(context.Background(), o))
	_, err := svc.ChangeStatus(context.Background(), o.ID, StatusEntregado)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), o.ID)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestPendingBalance_SumsOpenOrders(t *testing.T) {
	repo := newMemoryRepo()
	cust := customer.New("CLI-002", "Marisol Huaman")
	customers := &stubCustomers{byID: map[id.ID]*customer.Customer{cust.ID: cust}}
	svc := newTestService(repo, customers)

	open := newOrder("Juego de aretes", "200.00", "80.00")
	open.CustomerID = &cust.ID
	require.NoError(t, svc.Create(context.Background(), open))

	closed := newOrder("Anillo sello", "300.00", "100.00")
	closed.CustomerID = &cust.ID
	require.NoError(t, svc.Create(context.Background(), closed))
	_, err := svc.ChangeStatus(context.Background(), closed.ID, StatusCancelado)
	require.NoError(t, err)

	balance, err := svc.PendingBalance(context.Background(), cust.ID)
	require.NoError(t, err)
	assert.Equal(t, "120.00", balance.String())
}
