package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/fieldops/internal/domain"
	"github.com/simp-lee/fieldops/internal/pkg"
)

// Where holds column equality conditions. An empty Where matches every row.
type Where map[string]any

// ByID is the Where for a primary key lookup.
func ByID(id uint) Where {
	return Where{"id": id}
}

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// QueryOptions shapes a read.
type QueryOptions struct {
	// Include lists relations to preload.
	Include []string
	// Select restricts the columns read.
	Select  []string
	OrderBy []Order
	Take    int
	Skip    int
}

// Repository is a generic GORM-backed data access wrapper for model T.
// It holds no per-call state; the handle used for each call is resolved from
// ctx so that calls made inside pkg.WithTx join the transaction.
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository creates a Repository for T backed by db.
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// DB returns the handle for ctx: the active transaction or the shared pool.
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return pkg.DB(ctx, r.db)
}

// WithTransaction runs fn inside a transaction on the repository's database.
func (r *Repository[T]) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return pkg.WithTx(ctx, r.db, fn)
}

// FindMany returns the records matching where, shaped by opts.
func (r *Repository[T]) FindMany(ctx context.Context, where Where, opts QueryOptions) ([]T, error) {
	q, err := r.query(ctx, where, opts)
	if err != nil {
		return nil, err
	}

	items := []T{}
	if err := q.Find(&items).Error; err != nil {
		return nil, r.translate(ctx, "find_many", err)
	}
	return items, nil
}

// FindUnique returns the single record identified by where, or nil when
// there is none.
func (r *Repository[T]) FindUnique(ctx context.Context, where Where, opts ...QueryOptions) (*T, error) {
	if len(where) == 0 {
		return nil, domain.NewDatabaseError("Invalid query: unique lookup requires a condition")
	}
	var o QueryOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	o.Take, o.Skip = 0, 0
	return r.first(ctx, "find_unique", where, o)
}

// FindFirst returns the first matching record in opts.OrderBy order (or the
// engine's natural order), or nil when there is none.
func (r *Repository[T]) FindFirst(ctx context.Context, where Where, opts QueryOptions) (*T, error) {
	return r.first(ctx, "find_first", where, opts)
}

// Create inserts entity, filling server-populated fields in place.
// Nested relations on entity are not written.
func (r *Repository[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if err := r.DB(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return nil, r.translate(ctx, "create", err)
	}
	return entity, nil
}

// Update writes the named columns of entity to the record at where and
// returns the record as stored afterwards. Auto-update timestamps are
// refreshed. A missing record yields a NOT_FOUND error.
func (r *Repository[T]) Update(ctx context.Context, where Where, entity *T, columns []string) (*T, error) {
	if len(where) == 0 {
		return nil, domain.NewDatabaseError("Invalid query: update requires a condition")
	}
	if len(columns) == 0 {
		return nil, domain.NewDatabaseError("Invalid query: update requires at least one column")
	}
	if err := checkNames(columns); err != nil {
		return nil, err
	}

	result := r.DB(ctx).Model(new(T)).
		Where(map[string]any(where)).
		Select(columns).
		Omit(clause.Associations).
		Updates(entity)
	if result.Error != nil {
		return nil, r.translate(ctx, "update", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.NewNotFoundError("Record to update not found")
	}

	updated, err := r.first(ctx, "update", where, QueryOptions{})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NewNotFoundError("Record to update not found")
	}
	return updated, nil
}

// Delete removes the record at where and returns it.
// A missing record yields a NOT_FOUND error.
func (r *Repository[T]) Delete(ctx context.Context, where Where) (*T, error) {
	if len(where) == 0 {
		return nil, domain.NewDatabaseError("Invalid query: delete requires a condition")
	}

	existing, err := r.first(ctx, "delete", where, QueryOptions{})
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.NewNotFoundError("Record to delete does not exist")
	}

	result := r.DB(ctx).Where(map[string]any(where)).Delete(new(T))
	if result.Error != nil {
		return nil, r.translate(ctx, "delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.NewNotFoundError("Record to delete does not exist")
	}
	return existing, nil
}

// DeleteMany removes every record matching where and returns how many were
// removed. Matching nothing is not an error.
func (r *Repository[T]) DeleteMany(ctx context.Context, where Where) (int64, error) {
	if len(where) == 0 {
		return 0, domain.NewDatabaseError("Invalid query: delete requires a condition")
	}
	if err := checkWhere(where); err != nil {
		return 0, err
	}
	result := r.DB(ctx).Where(map[string]any(where)).Delete(new(T))
	if result.Error != nil {
		return 0, r.translate(ctx, "delete_many", result.Error)
	}
	return result.RowsAffected, nil
}

// Upsert updates the record at where with the named columns of update, or
// creates create when no such record exists. Both branches run in one
// transaction.
func (r *Repository[T]) Upsert(ctx context.Context, where Where, create *T, update *T, columns []string) (*T, error) {
	var out *T
	err := r.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := r.FindUnique(ctx, where)
		if err != nil {
			return err
		}
		if existing == nil {
			out, err = r.Create(ctx, create)
			return err
		}
		if len(columns) == 0 {
			out = existing
			return nil
		}
		out, err = r.Update(ctx, where, update, columns)
		return err
	})
	if err != nil {
		return nil, TranslateError(err)
	}
	return out, nil
}

// Count returns the number of records matching where.
func (r *Repository[T]) Count(ctx context.Context, where Where) (int64, error) {
	if err := checkWhere(where); err != nil {
		return 0, err
	}
	q := r.DB(ctx).Model(new(T))
	if len(where) > 0 {
		q = q.Where(map[string]any(where))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, r.translate(ctx, "count", err)
	}
	return total, nil
}

// Exists reports whether a record matches where. Lookup errors propagate.
func (r *Repository[T]) Exists(ctx context.Context, where Where) (bool, error) {
	found, err := r.FindUnique(ctx, where)
	if err != nil {
		return false, TranslateError(err)
	}
	return found != nil, nil
}

func (r *Repository[T]) first(ctx context.Context, op string, where Where, opts QueryOptions) (*T, error) {
	q, err := r.query(ctx, where, opts)
	if err != nil {
		return nil, err
	}

	var entity T
	if err := q.Take(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, r.translate(ctx, op, err)
	}
	return &entity, nil
}

// query builds a statement from where and opts after checking every
// identifier.
func (r *Repository[T]) query(ctx context.Context, where Where, opts QueryOptions) (*gorm.DB, error) {
	if err := checkWhere(where); err != nil {
		return nil, err
	}
	if err := checkNames(opts.Include); err != nil {
		return nil, err
	}
	if err := checkNames(opts.Select); err != nil {
		return nil, err
	}

	q := r.DB(ctx).Model(new(T))
	if len(where) > 0 {
		q = q.Where(map[string]any(where))
	}
	if len(opts.Select) > 0 {
		q = q.Select(opts.Select)
	}
	for _, rel := range opts.Include {
		q = q.Preload(rel)
	}
	for _, o := range opts.OrderBy {
		if !pkg.ValidFieldName(o.Column) {
			return nil, invalidName(o.Column)
		}
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}
	return q.Scopes(pkg.Window(opts.Skip, opts.Take)), nil
}

func (r *Repository[T]) translate(ctx context.Context, op string, err error) error {
	translated := TranslateError(err)
	if domain.IsDatabase(translated) {
		slog.ErrorContext(ctx, "repository error",
			slog.String("model", modelName[T]()),
			slog.String("op", op),
			slog.Any("error", err),
		)
	}
	return translated
}

func checkWhere(where Where) error {
	for column := range where {
		if !pkg.ValidFieldName(column) {
			return invalidName(column)
		}
	}
	return nil
}

func checkNames(names []string) error {
	for _, n := range names {
		if !pkg.ValidFieldName(n) {
			return invalidName(n)
		}
	}
	return nil
}

func invalidName(name string) error {
	return domain.NewDatabaseError(fmt.Sprintf("Invalid query: invalid field name %q", name))
}

func modelName[T any]() string {
	return fmt.Sprintf("%T", *new(T))
}
