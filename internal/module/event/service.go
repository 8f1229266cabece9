package event

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/crud"
	"github.com/simp-lee/fieldops/internal/domain"
	"github.com/simp-lee/fieldops/internal/pkg"
)

type (
	// Service is the event service.
	Service = crud.Service[domain.Event, Patch]
	// AssignmentService is the event assignment service.
	AssignmentService = crud.Service[domain.EventAssignment, AssignmentPatch]
	// QuantityService is the event quantity service.
	QuantityService = crud.Service[domain.EventQuantity, QuantityPatch]
)

// NewService creates the event service. Deleting an event also removes its
// assignments and quantities.
func NewService(db *gorm.DB) *Service {
	repo := crud.NewRepository[domain.Event](db)
	projects := crud.NewRepository[domain.Project](db)
	scopes := crud.NewRepository[domain.ScopeOfWork](db)
	assignments := crud.NewRepository[domain.EventAssignment](db)
	quantities := crud.NewRepository[domain.EventQuantity](db)

	references := func(ctx context.Context, e *domain.Event) error {
		if _, err := crud.RequireReference(ctx, projects, "project_id", e.ProjectID, "project"); err != nil {
			return err
		}
		if e.ScopeOfWorkID == nil {
			return nil
		}
		scope, err := crud.RequireReference(ctx, scopes, "scope_of_work_id", *e.ScopeOfWorkID, "scope of work")
		if err != nil {
			return err
		}
		if scope.ProjectID != e.ProjectID {
			return domain.NewValidationError("scope_of_work_id must belong to the event's project",
				domain.WithMeta("field", "scope_of_work_id"))
		}
		return nil
	}

	return crud.NewService(repo, "Event", crud.Hooks[domain.Event, Patch]{
		Validate: validate,
		BeforeCreate: func(ctx context.Context, e *domain.Event) error {
			if e.Status == "" {
				e.Status = domain.EventScheduled
			}
			return references(ctx, e)
		},
		BeforeUpdate: func(ctx context.Context, id uint, e *domain.Event, p Patch) error {
			if p.ProjectID != nil {
				if err := crud.DenyIfReferenced(ctx, quantities, crud.Where{"event_id": id},
					"cannot move an event with recorded quantities to another project"); err != nil {
					return err
				}
			}
			if p.ProjectID == nil && p.ScopeOfWorkID == nil {
				return nil
			}
			return references(ctx, e)
		},
		BeforeDelete: func(ctx context.Context, id uint) error {
			if _, err := quantities.DeleteMany(ctx, crud.Where{"event_id": id}); err != nil {
				return err
			}
			_, err := assignments.DeleteMany(ctx, crud.Where{"event_id": id})
			return err
		},
	})
}

// validate checks field rules. An empty status is accepted on create and
// defaults to scheduled.
func validate(_ context.Context, e *domain.Event, isUpdate bool) error {
	errs := []error{pkg.Required("title", e.Title)}
	if e.StartAt.IsZero() {
		errs = append(errs, domain.NewValidationError("start_at is required"))
	}
	if e.EndAt.IsZero() {
		errs = append(errs, domain.NewValidationError("end_at is required"))
	}
	if e.Status != "" || isUpdate {
		errs = append(errs, pkg.OneOf("status", e.Status, domain.EventStatuses))
	}
	errs = append(errs, pkg.NotBefore("start_at", &e.StartAt, "end_at", &e.EndAt))
	return pkg.FirstError(errs...)
}

// NewAssignmentService creates the event assignment service. Only active
// employees can be assigned.
func NewAssignmentService(db *gorm.DB) *AssignmentService {
	repo := crud.NewRepository[domain.EventAssignment](db)
	events := crud.NewRepository[domain.Event](db)
	employees := crud.NewRepository[domain.Employee](db)

	references := func(ctx context.Context, a *domain.EventAssignment) error {
		if _, err := crud.RequireReference(ctx, events, "event_id", a.EventID, "event"); err != nil {
			return err
		}
		emp, err := crud.RequireReference(ctx, employees, "employee_id", a.EmployeeID, "employee")
		if err != nil {
			return err
		}
		if !emp.IsActive() {
			return domain.NewValidationError("employee_id references an inactive employee",
				domain.WithMeta("field", "employee_id"))
		}
		return nil
	}
	unique := func(ctx context.Context, self uint, a *domain.EventAssignment) error {
		return crud.DenyDuplicate(ctx, repo, crud.Where{"event_id": a.EventID, "employee_id": a.EmployeeID},
			self, "This employee is already assigned to the event", "event_id", "employee_id")
	}

	return crud.NewService(repo, "EventAssignment", crud.Hooks[domain.EventAssignment, AssignmentPatch]{
		Validate: func(_ context.Context, a *domain.EventAssignment, _ bool) error {
			return pkg.NonNegative("hours", a.Hours)
		},
		BeforeCreate: func(ctx context.Context, a *domain.EventAssignment) error {
			if err := references(ctx, a); err != nil {
				return err
			}
			return unique(ctx, 0, a)
		},
		BeforeUpdate: func(ctx context.Context, id uint, a *domain.EventAssignment, p AssignmentPatch) error {
			if p.EventID == nil && p.EmployeeID == nil {
				return nil
			}
			if err := references(ctx, a); err != nil {
				return err
			}
			return unique(ctx, id, a)
		},
	})
}

// NewQuantityService creates the event quantity service. The project pay item
// must belong to the event's project.
func NewQuantityService(db *gorm.DB) *QuantityService {
	repo := crud.NewRepository[domain.EventQuantity](db)
	events := crud.NewRepository[domain.Event](db)
	payItems := crud.NewRepository[domain.ProjectPayItem](db)

	references := func(ctx context.Context, q *domain.EventQuantity) error {
		ev, err := crud.RequireReference(ctx, events, "event_id", q.EventID, "event")
		if err != nil {
			return err
		}
		item, err := crud.RequireReference(ctx, payItems, "project_pay_item_id", q.ProjectPayItemID, "project pay item")
		if err != nil {
			return err
		}
		if item.ProjectID != ev.ProjectID {
			return domain.NewValidationError("project_pay_item_id must belong to the event's project",
				domain.WithMeta("field", "project_pay_item_id"))
		}
		return nil
	}

	return crud.NewService(repo, "EventQuantity", crud.Hooks[domain.EventQuantity, QuantityPatch]{
		Validate: func(_ context.Context, q *domain.EventQuantity, _ bool) error {
			return pkg.Positive("quantity", q.Quantity)
		},
		BeforeCreate: references,
		BeforeUpdate: func(ctx context.Context, _ uint, q *domain.EventQuantity, p QuantityPatch) error {
			if p.EventID == nil && p.ProjectPayItemID == nil {
				return nil
			}
			return references(ctx, q)
		},
	})
}
