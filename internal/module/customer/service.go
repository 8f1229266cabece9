package customer

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/crud"
	"github.com/simp-lee/fieldops/internal/domain"
	"github.com/simp-lee/fieldops/internal/pkg"
)

// Service is the customer service.
type Service = crud.Service[domain.Customer, Patch]

const duplicateEmailMessage = "A customer with this email already exists"

// NewService creates the customer service.
func NewService(db *gorm.DB) *Service {
	repo := crud.NewRepository[domain.Customer](db)
	projects := crud.NewRepository[domain.Project](db)

	return crud.NewService(repo, "Customer", crud.Hooks[domain.Customer, Patch]{
		Validate: validate,
		BeforeCreate: func(ctx context.Context, c *domain.Customer) error {
			return crud.DenyDuplicate(ctx, repo, crud.Where{"email": c.Email}, 0, duplicateEmailMessage, "email")
		},
		BeforeUpdate: func(ctx context.Context, id uint, c *domain.Customer, p Patch) error {
			if p.Email == nil {
				return nil
			}
			return crud.DenyDuplicate(ctx, repo, crud.Where{"email": c.Email}, id, duplicateEmailMessage, "email")
		},
		BeforeDelete: func(ctx context.Context, id uint) error {
			return crud.DenyIfReferenced(ctx, projects, crud.Where{"customer_id": id},
				"cannot delete customer with existing projects")
		},
	})
}

func validate(_ context.Context, c *domain.Customer, _ bool) error {
	return pkg.FirstError(
		pkg.Required("name", c.Name),
		pkg.MaxLength("name", c.Name, 200),
		pkg.Required("email", c.Email),
		pkg.Email("email", c.Email),
		pkg.Phone("phone_number", c.PhoneNumber),
	)
}
