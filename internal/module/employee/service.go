package employee

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/crud"
	"github.com/simp-lee/fieldops/internal/domain"
	"github.com/simp-lee/fieldops/internal/pkg"
)

// Service is the employee service.
type Service = crud.Service[domain.Employee, Patch]

const duplicateEmailMessage = "An employee with this email already exists"

// NewService creates the employee service.
func NewService(db *gorm.DB) *Service {
	repo := crud.NewRepository[domain.Employee](db)
	assignments := crud.NewRepository[domain.EventAssignment](db)

	uniqueEmail := func(ctx context.Context, self uint, e *domain.Employee) error {
		if e.Email == nil {
			return nil
		}
		return crud.DenyDuplicate(ctx, repo, crud.Where{"email": *e.Email}, self, duplicateEmailMessage, "email")
	}

	return crud.NewService(repo, "Employee", crud.Hooks[domain.Employee, Patch]{
		Validate: validate,
		BeforeCreate: func(ctx context.Context, e *domain.Employee) error {
			if e.Active == nil {
				active := true
				e.Active = &active
			}
			return uniqueEmail(ctx, 0, e)
		},
		BeforeUpdate: func(ctx context.Context, id uint, e *domain.Employee, p Patch) error {
			if p.Email == nil {
				return nil
			}
			return uniqueEmail(ctx, id, e)
		},
		BeforeDelete: func(ctx context.Context, id uint) error {
			return crud.DenyIfReferenced(ctx, assignments, crud.Where{"employee_id": id},
				"cannot delete employee with event assignments; deactivate instead")
		},
	})
}

func validate(_ context.Context, e *domain.Employee, _ bool) error {
	errs := []error{
		pkg.Required("first_name", e.FirstName),
		pkg.Required("last_name", e.LastName),
		pkg.NonNegative("hourly_rate", e.HourlyRate),
		pkg.Phone("phone_number", e.PhoneNumber),
	}
	if e.Email != nil {
		errs = append(errs, pkg.Email("email", *e.Email))
	}
	return pkg.FirstError(errs...)
}
