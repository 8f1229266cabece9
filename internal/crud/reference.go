package crud

import (
	"context"

	"github.com/simp-lee/fieldops/internal/domain"
)

// RequireReference checks that the T record with id exists. A zero id or a
// missing record yields a VALIDATION error such as
// "customer_id references a missing customer".
func RequireReference[T any](ctx context.Context, repo *Repository[T], field string, id uint, what string) (*T, error) {
	if id == 0 {
		return nil, domain.NewValidationError(field + " is required")
	}
	found, err := repo.FindUnique(ctx, ByID(id))
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.NewValidationError(field+" references a missing "+what,
			domain.WithMeta("field", field))
	}
	return found, nil
}

// DenyIfReferenced returns a BUSINESS_LOGIC error with message when any T
// record matches where.
func DenyIfReferenced[T any](ctx context.Context, repo *Repository[T], where Where, message string) error {
	n, err := repo.Count(ctx, where)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.NewBusinessLogicError(message, domain.WithMeta("dependents", n))
	}
	return nil
}

// DenyDuplicate returns a CONFLICT error when a T record other than the one
// with id self matches where. self is 0 on create.
func DenyDuplicate[T any](ctx context.Context, repo *Repository[T], where Where, self uint, message string, fields ...string) error {
	found, err := repo.FindFirst(ctx, where, QueryOptions{})
	if err != nil {
		return err
	}
	if found == nil {
		return nil
	}
	if e, ok := any(found).(interface{ GetID() uint }); ok && self != 0 && e.GetID() == self {
		return nil
	}
	opts := []domain.ErrorOption{}
	if len(fields) > 0 {
		opts = append(opts, domain.WithMeta("target", fields))
	}
	return domain.NewConflictError(message, opts...)
}
