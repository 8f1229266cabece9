package crud

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/simp-lee/fieldops/internal/domain"
	"github.com/simp-lee/fieldops/internal/pkg"
)

// Patch is a partial update for T. Apply copies the fields that are set onto
// entity and returns the names of the columns it changed.
//
// The same type doubles as the create input: applying it to a zero T yields
// the entity to insert.
type Patch[T any] interface {
	Apply(entity *T) []string
}

// Hooks are the extension points of the Service pipeline. A nil hook is
// skipped.
type Hooks[T any, P Patch[T]] struct {
	// Validate checks entity before it is written. On update entity is the
	// stored record with the patch already applied.
	Validate func(ctx context.Context, entity *T, isUpdate bool) error

	BeforeCreate func(ctx context.Context, entity *T) error
	AfterCreate  func(ctx context.Context, entity *T) error

	BeforeUpdate func(ctx context.Context, id uint, entity *T, patch P) error
	AfterUpdate  func(ctx context.Context, entity *T) error

	// BeforeDelete may veto a delete, typically with a BUSINESS_LOGIC error.
	BeforeDelete func(ctx context.Context, id uint) error
}

// Service applies validation and business rules around a Repository.
type Service[T any, P Patch[T]] struct {
	repo  *Repository[T]
	name  string
	hooks Hooks[T, P]
}

// NewService creates a Service. name is the entity name used in messages,
// e.g. "Customer".
func NewService[T any, P Patch[T]](repo *Repository[T], name string, hooks Hooks[T, P]) *Service[T, P] {
	return &Service[T, P]{repo: repo, name: name, hooks: hooks}
}

// Repository returns the underlying repository.
func (s *Service[T, P]) Repository() *Repository[T] {
	return s.repo
}

// Name returns the entity name.
func (s *Service[T, P]) Name() string {
	return s.name
}

// List returns the records matching filters. Pagination, when set, is
// translated to a skip/take window; page/pageSize wins over skip/take.
func (s *Service[T, P]) List(ctx context.Context, filters Where, pagination domain.PaginationOptions, opts QueryOptions) ([]T, error) {
	if skip, take, ok := pagination.Window(); ok {
		opts.Skip, opts.Take = skip, take
	}
	return s.repo.FindMany(ctx, filters, opts)
}

// ListPaginated returns one page of the records matching filters together
// with the total count. Page defaults to 1 and page size to 20.
func (s *Service[T, P]) ListPaginated(ctx context.Context, filters Where, pagination domain.PaginationOptions, opts QueryOptions) (*domain.Page[T], error) {
	page, pageSize := pagination.Page, pagination.PageSize
	if page <= 0 {
		page = pkg.DefaultPage
	}
	if pageSize <= 0 {
		pageSize = pkg.DefaultPageSize
	}
	opts.Skip, opts.Take = (page-1)*pageSize, pageSize

	var (
		items []T
		total int64
	)
	count := func(ctx context.Context) (err error) {
		total, err = s.repo.Count(ctx, filters)
		return err
	}
	fetch := func(ctx context.Context) (err error) {
		items, err = s.repo.FindMany(ctx, filters, opts)
		return err
	}

	// A transaction is a single connection, so its statements cannot overlap.
	if pkg.InTx(ctx) {
		if err := count(ctx); err != nil {
			return nil, err
		}
		if err := fetch(ctx); err != nil {
			return nil, err
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return count(gctx) })
		g.Go(func() error { return fetch(gctx) })
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return &domain.Page[T]{
		Data:       items,
		Pagination: domain.NewPaginationResult(page, pageSize, total),
	}, nil
}

// GetByID returns the record with id or a NOT_FOUND error naming the id.
func (s *Service[T, P]) GetByID(ctx context.Context, id uint, opts ...QueryOptions) (*T, error) {
	entity, err := s.repo.FindUnique(ctx, ByID(id), opts...)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, s.notFound(id)
	}
	return entity, nil
}

// Create runs validate, beforeCreate, the insert and afterCreate in order.
// The first failing stage aborts the pipeline.
func (s *Service[T, P]) Create(ctx context.Context, entity *T) (*T, error) {
	log := slog.With(slog.String("entity", s.name))

	if s.hooks.Validate != nil {
		if err := s.hooks.Validate(ctx, entity, false); err != nil {
			log.DebugContext(ctx, "create rejected", slog.String("stage", "validate"), slog.Any("error", err))
			return nil, err
		}
	}
	if s.hooks.BeforeCreate != nil {
		if err := s.hooks.BeforeCreate(ctx, entity); err != nil {
			log.DebugContext(ctx, "create rejected", slog.String("stage", "before_create"), slog.Any("error", err))
			return nil, err
		}
	}

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return nil, err
	}

	if s.hooks.AfterCreate != nil {
		if err := s.hooks.AfterCreate(ctx, created); err != nil {
			return nil, err
		}
	}
	log.DebugContext(ctx, "created")
	return created, nil
}

// Update applies patch to the record with id. The record must exist.
// A patch that sets no fields returns the stored record unchanged.
func (s *Service[T, P]) Update(ctx context.Context, id uint, patch P) (*T, error) {
	log := slog.With(slog.String("entity", s.name), slog.Uint64("id", uint64(id)))

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	columns := patch.Apply(&merged)
	if len(columns) == 0 {
		return existing, nil
	}

	if s.hooks.Validate != nil {
		if err := s.hooks.Validate(ctx, &merged, true); err != nil {
			log.DebugContext(ctx, "update rejected", slog.String("stage", "validate"), slog.Any("error", err))
			return nil, err
		}
	}
	if s.hooks.BeforeUpdate != nil {
		if err := s.hooks.BeforeUpdate(ctx, id, &merged, patch); err != nil {
			log.DebugContext(ctx, "update rejected", slog.String("stage", "before_update"), slog.Any("error", err))
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, ByID(id), &merged, columns)
	if err != nil {
		return nil, err
	}

	if s.hooks.AfterUpdate != nil {
		if err := s.hooks.AfterUpdate(ctx, updated); err != nil {
			return nil, err
		}
	}
	log.DebugContext(ctx, "updated", slog.Any("columns", columns))
	return updated, nil
}

// Delete removes the record with id and returns it. The record must exist and
// beforeDelete must not veto. beforeDelete and the delete share one
// transaction, so rows removed by the hook are restored if the delete fails.
func (s *Service[T, P]) Delete(ctx context.Context, id uint) (*T, error) {
	var deleted *T
	err := s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		if s.hooks.BeforeDelete != nil {
			if err := s.hooks.BeforeDelete(ctx, id); err != nil {
				slog.DebugContext(ctx, "delete rejected",
					slog.String("entity", s.name),
					slog.Uint64("id", uint64(id)),
					slog.Any("error", err),
				)
				return err
			}
		}
		var err error
		deleted, err = s.repo.Delete(ctx, ByID(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// WithTransaction runs fn in a transaction. Inside an existing transaction fn
// joins it instead of starting a nested one.
func (s *Service[T, P]) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.repo.WithTransaction(ctx, fn)
}

func (s *Service[T, P]) notFound(id uint) error {
	return domain.NewNotFoundError(fmt.Sprintf("%s with id %d not found", s.name, id))
}
