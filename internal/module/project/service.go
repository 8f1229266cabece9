package project

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/crud"
	"github.com/simp-lee/fieldops/internal/domain"
	"github.com/simp-lee/fieldops/internal/module/audit"
	"github.com/simp-lee/fieldops/internal/pkg"
)

type (
	// Service is the project service.
	Service = crud.Service[domain.Project, Patch]
	// ScopeService is the scope of work service.
	ScopeService = crud.Service[domain.ScopeOfWork, ScopePatch]
	// PayItemService is the project pay item service.
	PayItemService = crud.Service[domain.ProjectPayItem, PayItemPatch]
)

// NewService creates the project service. Creates and updates are recorded
// by rec.
//
// Deleting a project removes its scopes of work and pay items. Projects with
// events or invoices cannot be deleted.
func NewService(db *gorm.DB, rec *audit.Recorder) *Service {
	repo := crud.NewRepository[domain.Project](db)
	customers := crud.NewRepository[domain.Customer](db)
	events := crud.NewRepository[domain.Event](db)
	invoices := crud.NewRepository[domain.Invoice](db)
	scopes := crud.NewRepository[domain.ScopeOfWork](db)
	payItems := crud.NewRepository[domain.ProjectPayItem](db)

	requireCustomer := func(ctx context.Context, p *domain.Project) error {
		_, err := crud.RequireReference(ctx, customers, "customer_id", p.CustomerID, "customer")
		return err
	}

	return crud.NewService(repo, "Project", crud.Hooks[domain.Project, Patch]{
		Validate: validate,
		BeforeCreate: func(ctx context.Context, p *domain.Project) error {
			if p.Status == "" {
				p.Status = domain.ProjectBidding
			}
			return requireCustomer(ctx, p)
		},
		BeforeUpdate: func(ctx context.Context, _ uint, p *domain.Project, patch Patch) error {
			if patch.CustomerID == nil {
				return nil
			}
			return requireCustomer(ctx, p)
		},
		AfterCreate: audit.AfterCreate[domain.Project](rec, "project"),
		AfterUpdate: audit.AfterUpdate[domain.Project](rec, "project"),
		BeforeDelete: func(ctx context.Context, id uint) error {
			if err := crud.DenyIfReferenced(ctx, events, crud.Where{"project_id": id},
				"cannot delete project with active events"); err != nil {
				return err
			}
			if err := crud.DenyIfReferenced(ctx, invoices, crud.Where{"project_id": id},
				"cannot delete project with invoices"); err != nil {
				return err
			}
			if _, err := payItems.DeleteMany(ctx, crud.Where{"project_id": id}); err != nil {
				return err
			}
			_, err := scopes.DeleteMany(ctx, crud.Where{"project_id": id})
			return err
		},
	})
}

// validate checks field rules. An empty status is accepted on create and
// defaults to bidding.
func validate(_ context.Context, p *domain.Project, isUpdate bool) error {
	errs := []error{
		pkg.Required("name", p.Name),
		pkg.MaxLength("name", p.Name, 200),
		pkg.NonNegative("contract_amount", p.ContractAmount),
	}
	if p.Status != "" || isUpdate {
		errs = append(errs, pkg.OneOf("status", p.Status, domain.ProjectStatuses))
	}
	errs = append(errs, pkg.NotBefore("start_date", p.StartDate, "end_date", p.EndDate))
	return pkg.FirstError(errs...)
}

// NewScopeService creates the scope of work service.
func NewScopeService(db *gorm.DB) *ScopeService {
	repo := crud.NewRepository[domain.ScopeOfWork](db)
	projects := crud.NewRepository[domain.Project](db)
	events := crud.NewRepository[domain.Event](db)

	requireProject := func(ctx context.Context, s *domain.ScopeOfWork) error {
		_, err := crud.RequireReference(ctx, projects, "project_id", s.ProjectID, "project")
		return err
	}

	return crud.NewService(repo, "ScopeOfWork", crud.Hooks[domain.ScopeOfWork, ScopePatch]{
		Validate: func(_ context.Context, s *domain.ScopeOfWork, _ bool) error {
			return pkg.Required("title", s.Title)
		},
		BeforeCreate: requireProject,
		BeforeUpdate: func(ctx context.Context, _ uint, s *domain.ScopeOfWork, p ScopePatch) error {
			if p.ProjectID == nil {
				return nil
			}
			return requireProject(ctx, s)
		},
		BeforeDelete: func(ctx context.Context, id uint) error {
			return crud.DenyIfReferenced(ctx, events, crud.Where{"scope_of_work_id": id},
				"cannot delete scope of work used by events")
		},
	})
}

// NewPayItemService creates the project pay item service.
func NewPayItemService(db *gorm.DB) *PayItemService {
	repo := crud.NewRepository[domain.ProjectPayItem](db)
	projects := crud.NewRepository[domain.Project](db)
	catalogue := crud.NewRepository[domain.PayItem](db)
	quantities := crud.NewRepository[domain.EventQuantity](db)

	const duplicate = "This pay item is already part of the project"

	references := func(ctx context.Context, i *domain.ProjectPayItem) (*domain.PayItem, error) {
		if _, err := crud.RequireReference(ctx, projects, "project_id", i.ProjectID, "project"); err != nil {
			return nil, err
		}
		return crud.RequireReference(ctx, catalogue, "pay_item_id", i.PayItemID, "pay item")
	}
	unique := func(ctx context.Context, self uint, i *domain.ProjectPayItem) error {
		return crud.DenyDuplicate(ctx, repo, crud.Where{"project_id": i.ProjectID, "pay_item_id": i.PayItemID},
			self, duplicate, "project_id", "pay_item_id")
	}

	return crud.NewService(repo, "ProjectPayItem", crud.Hooks[domain.ProjectPayItem, PayItemPatch]{
		Validate: func(_ context.Context, i *domain.ProjectPayItem, _ bool) error {
			return pkg.FirstError(
				pkg.NonNegative("quantity", i.Quantity),
				pkg.NonNegative("unit_price", i.UnitPrice),
			)
		},
		BeforeCreate: func(ctx context.Context, i *domain.ProjectPayItem) error {
			item, err := references(ctx, i)
			if err != nil {
				return err
			}
			if i.UnitPrice.IsZero() {
				i.UnitPrice = item.UnitPrice
			}
			return unique(ctx, 0, i)
		},
		BeforeUpdate: func(ctx context.Context, id uint, i *domain.ProjectPayItem, p PayItemPatch) error {
			if p.ProjectID == nil && p.PayItemID == nil {
				return nil
			}
			if _, err := references(ctx, i); err != nil {
				return err
			}
			return unique(ctx, id, i)
		},
		BeforeDelete: func(ctx context.Context, id uint) error {
			return crud.DenyIfReferenced(ctx, quantities, crud.Where{"project_pay_item_id": id},
				"cannot delete project pay item with recorded quantities")
		},
	})
}
