package crud

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/fieldops/internal/domain"
)

// spy records the order in which pipeline stages ran.
type spy struct {
	calls []string
}

func (s *spy) hooks() Hooks[gadget, gadgetPatch] {
	return Hooks[gadget, gadgetPatch]{
		Validate: func(_ context.Context, g *gadget, isUpdate bool) error {
			if isUpdate {
				s.calls = append(s.calls, "validate:update")
			} else {
				s.calls = append(s.calls, "validate:create")
			}
			if g.Code == "" {
				return domain.NewValidationError("code is required")
			}
			return nil
		},
		BeforeCreate: func(_ context.Context, g *gadget) error {
			s.calls = append(s.calls, "before_create")
			if g.Name == "" {
				g.Name = "unnamed"
			}
			return nil
		},
		AfterCreate: func(_ context.Context, g *gadget) error {
			s.calls = append(s.calls, "after_create")
			return nil
		},
		BeforeUpdate: func(_ context.Context, _ uint, _ *gadget, _ gadgetPatch) error {
			s.calls = append(s.calls, "before_update")
			return nil
		},
		AfterUpdate: func(_ context.Context, _ *gadget) error {
			s.calls = append(s.calls, "after_update")
			return nil
		},
		BeforeDelete: func(_ context.Context, _ uint) error {
			s.calls = append(s.calls, "before_delete")
			return nil
		},
	}
}

func newGadgetService(t *testing.T, hooks Hooks[gadget, gadgetPatch]) (*Service[gadget, gadgetPatch], *Repository[gadget]) {
	t.Helper()
	repo := NewRepository[gadget](newTestDB(t))
	return NewService(repo, "Gadget", hooks), repo
}

func TestService_Create_Pipeline(t *testing.T) {
	s := &spy{}
	svc, _ := newGadgetService(t, s.hooks())

	g, err := svc.Create(t.Context(), &gadget{Code: "A"})
	require.NoError(t, err)
	assert.NotZero(t, g.ID)
	assert.Equal(t, "unnamed", g.Name, "beforeCreate may enrich the entity")
	assert.Equal(t, []string{"validate:create", "before_create", "after_create"}, s.calls)
}

func TestService_Create_ValidationShortCircuits(t *testing.T) {
	s := &spy{}
	svc, repo := newGadgetService(t, s.hooks())
	ctx := t.Context()

	_, err := svc.Create(ctx, &gadget{})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, []string{"validate:create"}, s.calls)

	n, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing may be persisted after a validation failure")
}

func TestService_Create_BeforeCreateAborts(t *testing.T) {
	veto := domain.NewConflictError("already exists")
	svc, repo := newGadgetService(t, Hooks[gadget, gadgetPatch]{
		BeforeCreate: func(context.Context, *gadget) error { return veto },
		AfterCreate: func(context.Context, *gadget) error {
			t.Fatal("afterCreate must not run")
			return nil
		},
	})
	ctx := t.Context()

	_, err := svc.Create(ctx, &gadget{Code: "A"})
	assert.Same(t, veto, err)

	n, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_Create_DefaultHooks(t *testing.T) {
	svc, _ := newGadgetService(t, Hooks[gadget, gadgetPatch]{})

	g, err := svc.Create(t.Context(), &gadget{Code: "A", Name: "plain"})
	require.NoError(t, err)
	assert.Equal(t, "plain", g.Name)
}

func TestService_Create_ConflictFromStorage(t *testing.T) {
	svc, _ := newGadgetService(t, Hooks[gadget, gadgetPatch]{})
	ctx := t.Context()

	_, err := svc.Create(ctx, &gadget{Code: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &gadget{Code: "A"})
	assert.True(t, domain.IsConflict(err))
}

func TestService_GetByID(t *testing.T) {
	svc, repo := newGadgetService(t, Hooks[gadget, gadgetPatch]{})
	ctx := t.Context()

	created, err := repo.Create(ctx, &gadget{Code: "A"})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Code)

	_, err = svc.GetByID(ctx, 42)
	require.Error(t, err)
	de, ok := domain.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeNotFound, de.Code)
	assert.Equal(t, "Gadget with id 42 not found", de.Message)
}

func TestService_MutationsRequireExistence(t *testing.T) {
	s := &spy{}
	svc, _ := newGadgetService(t, s.hooks())
	ctx := t.Context()

	_, err := svc.Update(ctx, 42, gadgetPatch{Name: ptr("x")})
	assert.True(t, domain.IsNotFound(err))

	_, err = svc.Delete(ctx, 42)
	assert.True(t, domain.IsNotFound(err))

	assert.Empty(t, s.calls, "no hook runs for a missing record")
}

func TestService_Update_Pipeline(t *testing.T) {
	s := &spy{}
	svc, repo := newGadgetService(t, s.hooks())
	ctx := t.Context()

	created, err := repo.Create(ctx, &gadget{Code: "A", Name: "old", Qty: 5})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, gadgetPatch{Name: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Name)
	assert.Equal(t, 5, updated.Qty, "fields outside the patch are kept")
	assert.Equal(t, []string{"validate:update", "before_update", "after_update"}, s.calls)
}

func TestService_Update_ValidatesMergedRecord(t *testing.T) {
	s := &spy{}
	svc, repo := newGadgetService(t, s.hooks())
	ctx := t.Context()

	created, err := repo.Create(ctx, &gadget{Code: "A"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, gadgetPatch{Code: ptr("")})
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, []string{"validate:update"}, s.calls)

	stored, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", stored.Code)
}

func TestService_Update_EmptyPatch(t *testing.T) {
	s := &spy{}
	svc, repo := newGadgetService(t, s.hooks())
	ctx := t.Context()

	created, err := repo.Create(ctx, &gadget{Code: "A", Name: "same"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, created.ID, gadgetPatch{})
	require.NoError(t, err)
	assert.Equal(t, "same", got.Name)
	assert.Empty(t, s.calls)
}

func TestService_Delete(t *testing.T) {
	s := &spy{}
	svc, repo := newGadgetService(t, s.hooks())
	ctx := t.Context()

	created, err := repo.Create(ctx, &gadget{Code: "A"})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, []string{"before_delete"}, s.calls)

	_, err = svc.GetByID(ctx, created.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestService_Delete_Veto(t *testing.T) {
	svc, repo := newGadgetService(t, Hooks[gadget, gadgetPatch]{
		BeforeDelete: func(context.Context, uint) error {
			return domain.NewBusinessLogicError("gadget is in use")
		},
	})
	ctx := t.Context()

	created, err := repo.Create(ctx, &gadget{Code: "A"})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, created.ID)
	assert.True(t, domain.IsBusinessLogic(err))
	assert.Equal(t, 422, domain.HTTPStatusCode(err))

	exists, err := repo.Exists(ctx, ByID(created.ID))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestService_List(t *testing.T) {
	svc, repo := newGadgetService(t, Hooks[gadget, gadgetPatch]{})
	seedGadgets(t, repo.db, 10)
	ctx := t.Context()
	byID := QueryOptions{OrderBy: []Order{{Column: "id"}}}

	all, err := svc.List(ctx, nil, domain.PaginationOptions{}, byID)
	require.NoError(t, err)
	assert.Len(t, all, 10)

	page, err := svc.List(ctx, nil, domain.PaginationOptions{Page: 2, PageSize: 3}, byID)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "G-004", page[0].Code)

	window, err := svc.List(ctx, nil, domain.PaginationOptions{Skip: 8, Take: 5}, byID)
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, "G-009", window[0].Code)

	// page/pageSize wins over skip/take.
	both, err := svc.List(ctx, nil, domain.PaginationOptions{Page: 1, PageSize: 2, Skip: 5, Take: 5}, byID)
	require.NoError(t, err)
	require.Len(t, both, 2)
	assert.Equal(t, "G-001", both[0].Code)
}

func TestService_ListPaginated(t *testing.T) {
	svc, repo := newGadgetService(t, Hooks[gadget, gadgetPatch]{})
	seedGadgets(t, repo.db, 45)
	ctx := t.Context()
	byID := QueryOptions{OrderBy: []Order{{Column: "id"}}}

	tests := []struct {
		name       string
		pagination domain.PaginationOptions
		wantPage   int
		wantSize   int
		wantLen    int
	}{
		{"defaults", domain.PaginationOptions{}, 1, 20, 20},
		{"last page", domain.PaginationOptions{Page: 3, PageSize: 20}, 3, 20, 5},
		{"past the end", domain.PaginationOptions{Page: 9, PageSize: 20}, 9, 20, 0},
		{"small pages", domain.PaginationOptions{Page: 2, PageSize: 7}, 2, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListPaginated(ctx, nil, tt.pagination, byID)
			require.NoError(t, err)
			assert.Len(t, page.Data, tt.wantLen)
			assert.Equal(t, tt.wantPage, page.Pagination.Page)
			assert.Equal(t, tt.wantSize, page.Pagination.PageSize)
			assert.EqualValues(t, 45, page.Pagination.Total)
			assert.Equal(t, domain.TotalPages(45, tt.wantSize), page.Pagination.TotalPages)
		})
	}
}

func TestService_ListPaginated_Filtered(t *testing.T) {
	svc, repo := newGadgetService(t, Hooks[gadget, gadgetPatch]{})
	seedGadgets(t, repo.db, 5)

	page, err := svc.ListPaginated(t.Context(), Where{"qty": 3}, domain.PaginationOptions{Page: 1, PageSize: 20}, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.EqualValues(t, 1, page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestService_ListPaginated_InTransaction(t *testing.T) {
	svc, repo := newGadgetService(t, Hooks[gadget, gadgetPatch]{})
	seedGadgets(t, repo.db, 3)

	err := svc.WithTransaction(t.Context(), func(ctx context.Context) error {
		page, err := svc.ListPaginated(ctx, nil, domain.PaginationOptions{Page: 1, PageSize: 2}, QueryOptions{})
		if err != nil {
			return err
		}
		assert.Len(t, page.Data, 2)
		assert.Equal(t, 2, page.Pagination.TotalPages)
		return nil
	})
	require.NoError(t, err)
}

func TestService_WithTransaction_Nested(t *testing.T) {
	svc, repo := newGadgetService(t, Hooks[gadget, gadgetPatch]{})
	ctx := t.Context()
	errAbort := errors.New("abort")

	err := svc.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := svc.Create(ctx, &gadget{Code: "OUTER"}); err != nil {
			return err
		}
		inner := svc.WithTransaction(ctx, func(ctx context.Context) error {
			_, err := svc.Create(ctx, &gadget{Code: "INNER"})
			return err
		})
		require.NoError(t, inner)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	// The inner call joined the outer transaction, so both inserts roll back.
	n, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
