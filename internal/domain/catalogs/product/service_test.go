package product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/domain"
	"orfebre/internal/domain/codes"
	"orfebre/internal/domain/ledger"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryRepo struct {
	byID   map[id.ID]*Product
	byCode map[string]*Product
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		byID:   make(map[id.ID]*Product),
		byCode: make(map[string]*Product),
	}
}

func (r *memoryRepo) Create(ctx context.Context, p *Product) error {
	if _, ok := r.byCode[p.Code]; ok {
		return apperror.NewDuplicate("product", "code", p.Code)
	}
	r.byID[p.ID] = p
	r.byCode[p.Code] = p
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	p, ok := r.byID[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return p, nil
}

func (r *memoryRepo) GetByCode(ctx context.Context, code string) (*Product, error) {
	p, ok := r.byCode[code]
	if !ok {
		return nil, apperror.NewNotFound("product", code)
	}
	return p, nil
}

func (r *memoryRepo) Update(ctx context.Context, p *Product) error {
	r.byID[p.ID] = p
	r.byCode[p.Code] = p
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, productID id.ID) error {
	p, ok := r.byID[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	delete(r.byCode, p.Code)
	delete(r.byID, productID)
	return nil
}

func (r *memoryRepo) SetActive(ctx context.Context, productID id.ID, active bool) error {
	p, ok := r.byID[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.Active = active
	return nil
}

func (r *memoryRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	result := domain.ListResult[*Product]{Limit: filter.Limit, Offset: filter.Offset}
	for _, p := range r.byID {
		result.Items = append(result.Items, p)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *memoryRepo) Exists(ctx context.Context, productID id.ID) (bool, error) {
	_, ok := r.byID[productID]
	return ok, nil
}

func (r *memoryRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, ok := r.byCode[code]
	return ok, nil
}

func (r *memoryRepo) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	result := domain.ListResult[*Product]{Limit: filter.Limit, Offset: filter.Offset}
	for _, p := range r.byID {
		if p.Active && p.IsLowStock() {
			result.Items = append(result.Items, p)
		}
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type memorySequences struct {
	vals map[string]int64
}

func (m *memorySequences) NextVal(ctx context.Context, scope string) (int64, error) {
	if m.vals == nil {
		m.vals = make(map[string]int64)
	}
	m.vals[scope]++
	return m.vals[scope], nil
}

type stubLedgerRepo struct {
	movements map[id.ID]bool
	balances  map[id.ID]int64
	inserted  []ledger.Movement

	applyErr error
}

func (s *stubLedgerRepo) ApplyDelta(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	if s.applyErr != nil {
		return 0, s.applyErr
	}
	if s.balances == nil {
		s.balances = make(map[id.ID]int64)
	}
	s.balances[productID] += delta
	return s.balances[productID], nil
}

func (s *stubLedgerRepo) InsertMovement(ctx context.Context, m ledger.Movement) error {
	s.inserted = append(s.inserted, m)
	return nil
}

func (s *stubLedgerRepo) GetBalance(ctx context.Context, productID id.ID) (int64, error) {
	return s.balances[productID], nil
}

func (s *stubLedgerRepo) ListMovements(ctx context.Context, productID id.ID, limit, offset int) ([]ledger.Movement, error) {
	return nil, nil
}

func (s *stubLedgerRepo) ListMovementsByReference(ctx context.Context, refType string, refID id.ID) ([]ledger.Movement, error) {
	return nil, nil
}

func (s *stubLedgerRepo) HasMovements(ctx context.Context, productID id.ID) (bool, error) {
	return s.movements[productID], nil
}

func newTestService(repo *memoryRepo, ledgerRepo *stubLedgerRepo) *Service {
	txm := passthroughTx{}
	gen := codes.NewGenerator(&memorySequences{})
	return NewService(repo, txm, gen, ledger.NewService(ledgerRepo, txm))
}

func TestCreate_GeneratesCodeFromGroupKey(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubLedgerRepo{})

	p := New("Aretes colgantes")
	p.Category = CategoryArete
	p.Material = MaterialPlata
	p.GroupKey = "arete18k"

	require.NoError(t, svc.Create(context.Background(), p))
	assert.Equal(t, "PROD-arete18k-1", p.Code)

	p2 := New("Aretes dormilonas")
	p2.Category = CategoryArete
	p2.Material = MaterialPlata
	p2.GroupKey = "arete18k"

	require.NoError(t, svc.Create(context.Background(), p2))
	assert.Equal(t, "PROD-arete18k-2", p2.Code)
}

func TestCreate_KeepsExplicitCode(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubLedgerRepo{})

	p := New("Anillo solitario")
	p.Category = CategoryAnillo
	p.Code = "ANI-LEGACY-7"

	require.NoError(t, svc.Create(context.Background(), p))
	assert.Equal(t, "ANI-LEGACY-7", p.Code)
}

func TestCreate_RetriesOnceOnDuplicateGeneratedCode(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubLedgerRepo{})

	// Occupy the first number the sequence will hand out.
	taken := New("Anillo importado")
	taken.Code = "PROD-anillo-1"
	require.NoError(t, svc.Create(context.Background(), taken))

	p := New("Anillo matrimonial")
	p.Category = CategoryAnillo
	p.GroupKey = "anillo"

	require.NoError(t, svc.Create(context.Background(), p))
	assert.Equal(t, "PROD-anillo-2", p.Code)
}

func TestCreate_InvalidGroupKey(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubLedgerRepo{})

	p := New("Collar de perlas")
	p.Category = CategoryCollar
	p.GroupKey = "collar perlas"

	err := svc.Create(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestCreate_DuplicateExplicitCodeNotRetried(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubLedgerRepo{})

	first := New("Pulsera tejida")
	first.Code = "PUL-001"
	require.NoError(t, svc.Create(context.Background(), first))

	second := New("Pulsera de cuero")
	second.Code = "PUL-001"
	err := svc.Create(context.Background(), second)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestCreate_OpeningStockBookedThroughLedger(t *testing.T) {
	repo := newMemoryRepo()
	ledgerRepo := &stubLedgerRepo{}
	svc := newTestService(repo, ledgerRepo)

	p := New("Cadena veneciana")
	p.Category = CategoryCollar
	p.GroupKey = "cadena"
	p.Stock = 7

	require.NoError(t, svc.Create(context.Background(), p))
	assert.Equal(t, int64(7), p.Stock)

	// The initial balance arrives as a movement, so stock stays the sum
	// of the product's ledger history from the first row on.
	require.Len(t, ledgerRepo.inserted, 1)
	m := ledgerRepo.inserted[0]
	assert.Equal(t, p.ID, m.ProductID)
	assert.Equal(t, int64(7), m.Delta)
	assert.Equal(t, ledger.ReasonManualAdjustment, m.Reason)
	assert.Equal(t, "saldo inicial", m.Note)
	assert.Equal(t, int64(7), m.StockAfter)
}

func TestCreate_ZeroStockWritesNoMovement(t *testing.T) {
	repo := newMemoryRepo()
	ledgerRepo := &stubLedgerRepo{}
	svc := newTestService(repo, ledgerRepo)

	p := New("Tobillera simple")
	p.GroupKey = "tobillera"

	require.NoError(t, svc.Create(context.Background(), p))
	assert.Empty(t, ledgerRepo.inserted)
}

func TestCreate_NegativeInitialStockRejected(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubLedgerRepo{})

	p := New("Pulsera rota")
	p.GroupKey = "pulsera"
	p.Stock = -1

	err := svc.Create(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, repo.byID)
}

func TestCreate_OpeningStockFailureRemovesProduct(t *testing.T) {
	repo := newMemoryRepo()
	ledgerRepo := &stubLedgerRepo{applyErr: errors.New("connection reset")}
	svc := newTestService(repo, ledgerRepo)

	p := New("Collar fallido")
	p.GroupKey = "collar"
	p.Stock = 3

	err := svc.Create(context.Background(), p)
	require.Error(t, err)

	// No catalog row may survive without its opening movement.
	_, err = svc.GetByID(context.Background(), p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_BlockedByLedgerHistory(t *testing.T) {
	repo := newMemoryRepo()
	ledgerRepo := &stubLedgerRepo{movements: make(map[id.ID]bool)}
	svc := newTestService(repo, ledgerRepo)

	p := New("Dije corazon")
	p.Category = CategoryDije
	p.GroupKey = "dije"
	require.NoError(t, svc.Create(context.Background(), p))

	ledgerRepo.movements[p.ID] = true

	err := svc.Delete(context.Background(), p.ID)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReferential, appErr.Code)

	// Deactivation stays available.
	require.NoError(t, svc.Deactivate(context.Background(), p.ID))
	got, err := svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestDelete_AllowedWithoutHistory(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubLedgerRepo{movements: make(map[id.ID]bool)})

	p := New("Pieza de prueba")
	p.GroupKey = "prueba"
	require.NoError(t, svc.Create(context.Background(), p))

	require.NoError(t, svc.Delete(context.Background(), p.ID))

	_, err := svc.GetByID(context.Background(), p.ID)
	assert.True(t, apperror.IsNotFound(err))
}
