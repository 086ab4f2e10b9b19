package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/benefits-api/internal/domain"
	"github.com/pkordes/benefits-api/internal/repo"
	"github.com/pkordes/benefits-api/internal/service"
)

// mockBenefitRepo is a hand-written test double for repo.BenefitRepo.
// Each method is a function field; set only the ones a test needs.
type mockBenefitRepo struct {
	create     func(ctx context.Context, b domain.Benefit) (domain.Benefit, error)
	getByID    func(ctx context.Context, id int64) (domain.Benefit, error)
	getByName  func(ctx context.Context, name string) (domain.Benefit, error)
	list       func(ctx context.Context) ([]domain.Benefit, error)
	listPaged  func(ctx context.Context, p domain.PaginationParams) ([]domain.Benefit, int64, error)
	update     func(ctx context.Context, id int64, patch domain.BenefitPatch) (domain.Benefit, error)
	softDelete func(ctx context.Context, id int64) error
}

func (m *mockBenefitRepo) Create(ctx context.Context, b domain.Benefit) (domain.Benefit, error) {
	return m.create(ctx, b)
}
func (m *mockBenefitRepo) GetByID(ctx context.Context, id int64) (domain.Benefit, error) {
	return m.getByID(ctx, id)
}
func (m *mockBenefitRepo) GetByName(ctx context.Context, name string) (domain.Benefit, error) {
	return m.getByName(ctx, name)
}
func (m *mockBenefitRepo) List(ctx context.Context) ([]domain.Benefit, error) {
	return m.list(ctx)
}
func (m *mockBenefitRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Benefit, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockBenefitRepo) Update(ctx context.Context, id int64, patch domain.BenefitPatch) (domain.Benefit, error) {
	return m.update(ctx, id, patch)
}
func (m *mockBenefitRepo) SoftDelete(ctx context.Context, id int64) error {
	return m.softDelete(ctx, id)
}

// compile-time check: mockBenefitRepo must satisfy repo.BenefitRepo.
var _ repo.BenefitRepo = (*mockBenefitRepo)(nil)

// memBenefitRepo is an in-memory repo.BenefitRepo with the same soft-delete
// and ordering semantics as the Postgres implementation. It backs the
// behavioural tests that need several operations to see each other's writes.
type memBenefitRepo struct {
	rows   []domain.Benefit
	nextID int64
	writes int
}

var _ repo.BenefitRepo = (*memBenefitRepo)(nil)

func (m *memBenefitRepo) live() []domain.Benefit {
	out := []domain.Benefit{}
	for _, b := range m.rows {
		if b.DeletedAt == nil {
			out = append(out, b)
		}
	}
	return out
}

func (m *memBenefitRepo) index(id int64) int {
	for i, b := range m.rows {
		if b.ID == id && b.DeletedAt == nil {
			return i
		}
	}
	return -1
}

func (m *memBenefitRepo) Create(_ context.Context, b domain.Benefit) (domain.Benefit, error) {
	for _, existing := range m.live() {
		if existing.Name == b.Name {
			return domain.Benefit{}, domain.ErrDuplicateName
		}
	}
	m.nextID++
	m.writes++
	now := time.Now().UTC()
	b.ID, b.CreatedAt, b.UpdatedAt = m.nextID, now, now
	m.rows = append(m.rows, b)
	return b, nil
}

func (m *memBenefitRepo) GetByID(_ context.Context, id int64) (domain.Benefit, error) {
	if i := m.index(id); i >= 0 {
		return m.rows[i], nil
	}
	return domain.Benefit{}, domain.ErrNotFound
}

func (m *memBenefitRepo) GetByName(_ context.Context, name string) (domain.Benefit, error) {
	for _, b := range m.live() {
		if b.Name == name {
			return b, nil
		}
	}
	return domain.Benefit{}, domain.ErrNotFound
}

func (m *memBenefitRepo) List(_ context.Context) ([]domain.Benefit, error) {
	return m.live(), nil
}

func (m *memBenefitRepo) ListPaged(_ context.Context, p domain.PaginationParams) ([]domain.Benefit, int64, error) {
	all := m.live()
	start := min(p.Offset(), len(all))
	end := start + min(p.Limit, len(all)-start)
	return all[start:end], int64(len(all)), nil
}

func (m *memBenefitRepo) Update(_ context.Context, id int64, patch domain.BenefitPatch) (domain.Benefit, error) {
	i := m.index(id)
	if i < 0 {
		return domain.Benefit{}, domain.ErrNotFound
	}
	if patch.Name != nil {
		if other, err := m.GetByName(context.Background(), *patch.Name); err == nil && other.ID != id {
			return domain.Benefit{}, domain.ErrDuplicateName
		}
	}
	m.writes++
	b := &m.rows[i]
	if patch.Name != nil {
		b.Name = *patch.Name
	}
	if patch.Description != nil {
		b.Description = patch.Description
	}
	if patch.ClearDescription {
		b.Description = nil
	}
	if patch.IsActive != nil {
		b.IsActive = *patch.IsActive
	}
	b.UpdatedAt = time.Now().UTC()
	return *b, nil
}

func (m *memBenefitRepo) SoftDelete(_ context.Context, id int64) error {
	i := m.index(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	m.writes++
	now := time.Now().UTC()
	m.rows[i].DeletedAt = &now
	return nil
}

// ---- helpers ---------------------------------------------------------------

const missingID int64 = 999999

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

func seed(t *testing.T, svc *service.BenefitService, names ...string) []domain.Benefit {
	t.Helper()
	var out []domain.Benefit
	for _, n := range names {
		b, err := svc.Create(context.Background(), n, nil, nil)
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

func notFoundByName() func(context.Context, string) (domain.Benefit, error) {
	return func(_ context.Context, _ string) (domain.Benefit, error) {
		return domain.Benefit{}, domain.ErrNotFound
	}
}

// ---- Create ----------------------------------------------------------------

func TestBenefitService_Create_DefaultsActive(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})

	got, err := svc.Create(context.Background(), "Vale Refeição", strPtr("Benefício para alimentação"), nil)

	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.True(t, got.IsActive)
	assert.Equal(t, "Vale Refeição", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Benefício para alimentação", *got.Description)
}

func TestBenefitService_Create_ExplicitInactive(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})

	got, err := svc.Create(context.Background(), "Vale Transporte", nil, boolPtr(false))

	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestBenefitService_Create_DuplicateName(t *testing.T) {
	mem := &memBenefitRepo{}
	svc := service.NewBenefitService(mem)
	seed(t, svc, "Vale Refeição")
	writesBefore := mem.writes

	_, err := svc.Create(context.Background(), "Vale Refeição", nil, nil)

	require.ErrorIs(t, err, domain.ErrDuplicateName)
	assert.Contains(t, err.Error(), `"Vale Refeição"`)
	assert.Equal(t, writesBefore, mem.writes, "store must not be mutated")
}

func TestBenefitService_Create_NameIsCaseSensitive(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	seed(t, svc, "Vale Refeição")

	_, err := svc.Create(context.Background(), "vale refeição", nil, nil)

	assert.NoError(t, err)
}

func TestBenefitService_Create_NameReusableAfterRemove(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	first := seed(t, svc, "Plano de Saúde")[0]
	require.NoError(t, svc.Remove(context.Background(), first.ID))

	second, err := svc.Create(context.Background(), "Plano de Saúde", nil, nil)

	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestBenefitService_Create_RaceCaughtByStore(t *testing.T) {
	r := &mockBenefitRepo{
		getByName: notFoundByName(),
		create: func(_ context.Context, _ domain.Benefit) (domain.Benefit, error) {
			return domain.Benefit{}, domain.ErrDuplicateName
		},
	}
	svc := service.NewBenefitService(r)

	_, err := svc.Create(context.Background(), "Gympass", nil, nil)

	require.ErrorIs(t, err, domain.ErrDuplicateName)
	assert.Contains(t, err.Error(), `"Gympass"`)
}

func TestBenefitService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockBenefitRepo{
		getByName: notFoundByName(),
		create: func(_ context.Context, _ domain.Benefit) (domain.Benefit, error) {
			return domain.Benefit{}, repoErr
		},
	}
	svc := service.NewBenefitService(r)

	_, err := svc.Create(context.Background(), "Gympass", nil, nil)

	assert.ErrorIs(t, err, repoErr)
}

func TestBenefitService_Create_LookupError(t *testing.T) {
	repoErr := errors.New("connection reset")
	r := &mockBenefitRepo{
		getByName: func(_ context.Context, _ string) (domain.Benefit, error) {
			return domain.Benefit{}, repoErr
		},
	}
	svc := service.NewBenefitService(r)

	_, err := svc.Create(context.Background(), "Gympass", nil, nil)

	assert.ErrorIs(t, err, repoErr)
}

// ---- FindOne ---------------------------------------------------------------

func TestBenefitService_FindOne_ReadAfterWrite(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	created, err := svc.Create(context.Background(), "Auxílio Creche", strPtr("Para filhos até 6 anos"), nil)
	require.NoError(t, err)

	got, err := svc.FindOne(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestBenefitService_FindOne_NotFound(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})

	_, err := svc.FindOne(context.Background(), missingID)

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "999999")
}

// ---- FindAll ---------------------------------------------------------------

func TestBenefitService_FindAll_Pagination(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	items := seed(t, svc, "Benefit 1", "Benefit 2", "Benefit 3", "Benefit 4", "Benefit 5")
	ctx := context.Background()

	first, err := svc.FindAll(ctx, intPtr(1), intPtr(2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), first.Total)
	assert.Equal(t, []domain.Benefit{items[0], items[1]}, first.Data)
	require.NotNil(t, first.Page)
	require.NotNil(t, first.Limit)
	assert.Equal(t, 1, *first.Page)
	assert.Equal(t, 2, *first.Limit)

	third, err := svc.FindAll(ctx, intPtr(3), intPtr(2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), third.Total)
	assert.Equal(t, []domain.Benefit{items[4]}, third.Data)

	past, err := svc.FindAll(ctx, intPtr(10), intPtr(2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), past.Total)
	assert.NotNil(t, past.Data)
	assert.Empty(t, past.Data)
}

func TestBenefitService_FindAll_HugePage(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	seed(t, svc, "Benefit 1", "Benefit 2", "Benefit 3")

	got, err := svc.FindAll(context.Background(), intPtr(math.MaxInt/2+2), intPtr(2))

	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Total)
	assert.NotNil(t, got.Data)
	assert.Empty(t, got.Data)
}

func TestBenefitService_FindAll_HugeLimit(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	items := seed(t, svc, "Benefit 1", "Benefit 2", "Benefit 3")

	got, err := svc.FindAll(context.Background(), intPtr(2), intPtr(math.MaxInt))

	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Total)
	assert.Empty(t, got.Data)

	first, err := svc.FindAll(context.Background(), intPtr(1), intPtr(math.MaxInt))
	require.NoError(t, err)
	assert.Equal(t, items, first.Data)
}

func TestBenefitService_FindAll_Unpaginated(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	seed(t, svc, "Benefit 1", "Benefit 2", "Benefit 3")

	for name, tc := range map[string]struct{ page, limit *int }{
		"no params":  {},
		"page only":  {page: intPtr(1)},
		"limit only": {limit: intPtr(2)},
		"zero page":  {page: intPtr(0), limit: intPtr(2)},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := svc.FindAll(context.Background(), tc.page, tc.limit)

			require.NoError(t, err)
			assert.Len(t, got.Data, 3)
			assert.Equal(t, int64(3), got.Total)
			assert.Nil(t, got.Page)
			assert.Nil(t, got.Limit)
		})
	}
}

func TestBenefitService_FindAll_NegativeParams(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})

	_, err := svc.FindAll(context.Background(), intPtr(-1), intPtr(2))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBenefitService_FindAll_NilFromRepo(t *testing.T) {
	r := &mockBenefitRepo{
		list: func(_ context.Context) ([]domain.Benefit, error) { return nil, nil },
	}
	svc := service.NewBenefitService(r)

	got, err := svc.FindAll(context.Background(), nil, nil)

	require.NoError(t, err)
	// Must be an empty slice, not nil, so it encodes as [] rather than null.
	assert.NotNil(t, got.Data)
	assert.Zero(t, got.Total)
}

func TestBenefitService_FindAll_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockBenefitRepo{
		listPaged: func(_ context.Context, _ domain.PaginationParams) ([]domain.Benefit, int64, error) {
			return nil, 0, repoErr
		},
	}
	svc := service.NewBenefitService(r)

	_, err := svc.FindAll(context.Background(), intPtr(1), intPtr(10))

	assert.ErrorIs(t, err, repoErr)
}

// ---- Update ----------------------------------------------------------------

func TestBenefitService_Update_OnlyPresentFields(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	created, err := svc.Create(context.Background(), "Vale Cultura", strPtr("Cinema e teatro"), nil)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, domain.BenefitPatch{
		Description: strPtr("Cinema, teatro e livros"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Vale Cultura", updated.Name)
	assert.True(t, updated.IsActive)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Cinema, teatro e livros", *updated.Description)
}

func TestBenefitService_Update_ClearDescription(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	created, err := svc.Create(context.Background(), "Vale Cultura", strPtr("Cinema e teatro"), nil)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, domain.BenefitPatch{ClearDescription: true})

	require.NoError(t, err)
	assert.Nil(t, updated.Description)
	assert.Equal(t, created.Name, updated.Name)

	got, err := svc.FindOne(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Description)
}

func TestBenefitService_Update_EmptyPatch(t *testing.T) {
	mem := &memBenefitRepo{}
	svc := service.NewBenefitService(mem)
	created := seed(t, svc, "Vale Cultura")[0]
	writesBefore := mem.writes

	got, err := svc.Update(context.Background(), created.ID, domain.BenefitPatch{})

	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, writesBefore, mem.writes)
}

func TestBenefitService_Update_NotFound(t *testing.T) {
	r := &mockBenefitRepo{
		getByID: func(_ context.Context, _ int64) (domain.Benefit, error) {
			return domain.Benefit{}, domain.ErrNotFound
		},
	}
	svc := service.NewBenefitService(r)

	_, err := svc.Update(context.Background(), missingID, domain.BenefitPatch{Name: strPtr("Novo Nome")})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBenefitService_Update_DuplicateName(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	items := seed(t, svc, "Vale Refeição", "Vale Alimentação")

	_, err := svc.Update(context.Background(), items[1].ID, domain.BenefitPatch{Name: strPtr("Vale Refeição")})

	require.ErrorIs(t, err, domain.ErrDuplicateName)
	assert.Contains(t, err.Error(), `"Vale Refeição"`)
}

// ---- Activate / Deactivate -------------------------------------------------

func TestBenefitService_ActivateDeactivate_Idempotent(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	created := seed(t, svc, "Seguro de Vida")[0]
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got, err := svc.Deactivate(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
		assert.Equal(t, created.Name, got.Name)
	}

	for i := 0; i < 2; i++ {
		got, err := svc.Activate(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, got.IsActive)
	}
}

func TestBenefitService_ActivateDeactivate_NotFound(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})

	_, err := svc.Activate(context.Background(), missingID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Deactivate(context.Background(), missingID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Remove ----------------------------------------------------------------

func TestBenefitService_Remove(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	items := seed(t, svc, "Vale Refeição", "Vale Transporte")
	ctx := context.Background()

	require.NoError(t, svc.Remove(ctx, items[0].ID))

	_, err := svc.FindOne(ctx, items[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := svc.FindAll(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), all.Total)
	assert.Equal(t, []domain.Benefit{items[1]}, all.Data)

	paged, err := svc.FindAll(ctx, intPtr(1), intPtr(10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), paged.Total)
}

func TestBenefitService_Remove_NotFound(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})

	err := svc.Remove(context.Background(), missingID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBenefitService_Remove_Twice(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	created := seed(t, svc, "Vale Refeição")[0]

	require.NoError(t, svc.Remove(context.Background(), created.ID))
	err := svc.Remove(context.Background(), created.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Lifecycle -------------------------------------------------------------

func TestBenefitService_Lifecycle(t *testing.T) {
	svc := service.NewBenefitService(&memBenefitRepo{})
	ctx := context.Background()

	created, err := svc.Create(ctx, "Vale Refeição", nil, nil)
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	deactivated, err := svc.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	got, err := svc.FindOne(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, svc.Remove(ctx, created.ID))

	_, err = svc.FindOne(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
