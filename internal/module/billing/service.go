package billing

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/crud"
	"github.com/simp-lee/fieldops/internal/domain"
	"github.com/simp-lee/fieldops/internal/module/audit"
	"github.com/simp-lee/fieldops/internal/pkg"
)

type (
	// PaymentTypeService is the payment type service.
	PaymentTypeService = crud.Service[domain.PaymentType, PaymentTypePatch]
	// PayItemService is the pay item service.
	PayItemService = crud.Service[domain.PayItem, PayItemPatch]
	// InvoiceService is the invoice service.
	InvoiceService = crud.Service[domain.Invoice, InvoicePatch]
)

// NewPaymentTypeService creates the payment type service.
func NewPaymentTypeService(db *gorm.DB) *PaymentTypeService {
	repo := crud.NewRepository[domain.PaymentType](db)
	invoices := crud.NewRepository[domain.Invoice](db)

	const duplicate = "A payment type with this name already exists"

	return crud.NewService(repo, "PaymentType", crud.Hooks[domain.PaymentType, PaymentTypePatch]{
		Validate: func(_ context.Context, t *domain.PaymentType, _ bool) error {
			return pkg.Required("name", t.Name)
		},
		BeforeCreate: func(ctx context.Context, t *domain.PaymentType) error {
			return crud.DenyDuplicate(ctx, repo, crud.Where{"name": t.Name}, 0, duplicate, "name")
		},
		BeforeUpdate: func(ctx context.Context, id uint, t *domain.PaymentType, p PaymentTypePatch) error {
			if p.Name == nil {
				return nil
			}
			return crud.DenyDuplicate(ctx, repo, crud.Where{"name": t.Name}, id, duplicate, "name")
		},
		BeforeDelete: func(ctx context.Context, id uint) error {
			return crud.DenyIfReferenced(ctx, invoices, crud.Where{"payment_type_id": id},
				"cannot delete payment type used by invoices")
		},
	})
}

// NewPayItemService creates the pay item service.
func NewPayItemService(db *gorm.DB) *PayItemService {
	repo := crud.NewRepository[domain.PayItem](db)
	projectItems := crud.NewRepository[domain.ProjectPayItem](db)

	const duplicate = "A pay item with this number already exists"

	return crud.NewService(repo, "PayItem", crud.Hooks[domain.PayItem, PayItemPatch]{
		Validate: func(_ context.Context, i *domain.PayItem, _ bool) error {
			return pkg.FirstError(
				pkg.Required("number", i.Number),
				pkg.Required("description", i.Description),
				pkg.Required("unit", i.Unit),
				pkg.NonNegative("unit_price", i.UnitPrice),
			)
		},
		BeforeCreate: func(ctx context.Context, i *domain.PayItem) error {
			return crud.DenyDuplicate(ctx, repo, crud.Where{"number": i.Number}, 0, duplicate, "number")
		},
		BeforeUpdate: func(ctx context.Context, id uint, i *domain.PayItem, p PayItemPatch) error {
			if p.Number == nil {
				return nil
			}
			return crud.DenyDuplicate(ctx, repo, crud.Where{"number": i.Number}, id, duplicate, "number")
		},
		BeforeDelete: func(ctx context.Context, id uint) error {
			return crud.DenyIfReferenced(ctx, projectItems, crud.Where{"pay_item_id": id},
				"cannot delete pay item included in projects")
		},
	})
}

// NewInvoiceService creates the invoice service. Creates and updates are
// recorded by rec.
func NewInvoiceService(db *gorm.DB, rec *audit.Recorder) *InvoiceService {
	repo := crud.NewRepository[domain.Invoice](db)
	projects := crud.NewRepository[domain.Project](db)
	paymentTypes := crud.NewRepository[domain.PaymentType](db)

	const duplicate = "An invoice with this number already exists"

	references := func(ctx context.Context, i *domain.Invoice) error {
		if _, err := crud.RequireReference(ctx, projects, "project_id", i.ProjectID, "project"); err != nil {
			return err
		}
		if i.PaymentTypeID != nil {
			if _, err := crud.RequireReference(ctx, paymentTypes, "payment_type_id", *i.PaymentTypeID, "payment type"); err != nil {
				return err
			}
		}
		return nil
	}

	return crud.NewService(repo, "Invoice", crud.Hooks[domain.Invoice, InvoicePatch]{
		Validate: validateInvoice,
		BeforeCreate: func(ctx context.Context, i *domain.Invoice) error {
			if i.Status == "" {
				i.Status = domain.InvoiceDraft
			}
			if err := references(ctx, i); err != nil {
				return err
			}
			return crud.DenyDuplicate(ctx, repo, crud.Where{"number": i.Number}, 0, duplicate, "number")
		},
		BeforeUpdate: func(ctx context.Context, id uint, i *domain.Invoice, p InvoicePatch) error {
			if p.ProjectID != nil || p.PaymentTypeID != nil {
				if err := references(ctx, i); err != nil {
					return err
				}
			}
			if p.Number == nil {
				return nil
			}
			return crud.DenyDuplicate(ctx, repo, crud.Where{"number": i.Number}, id, duplicate, "number")
		},
		AfterCreate: audit.AfterCreate[domain.Invoice](rec, "invoice"),
		AfterUpdate: audit.AfterUpdate[domain.Invoice](rec, "invoice"),
		BeforeDelete: func(ctx context.Context, id uint) error {
			inv, err := repo.FindUnique(ctx, crud.ByID(id))
			if err != nil {
				return err
			}
			if inv != nil && inv.Status == domain.InvoicePaid {
				return domain.NewBusinessLogicError("cannot delete a paid invoice; void it instead")
			}
			return nil
		},
	})
}

// validateInvoice checks field rules. An empty status is accepted on create
// and defaults to draft.
func validateInvoice(_ context.Context, i *domain.Invoice, isUpdate bool) error {
	errs := []error{
		pkg.Required("number", i.Number),
		pkg.NonNegative("amount", i.Amount),
	}
	if i.Status != "" || isUpdate {
		errs = append(errs, pkg.OneOf("status", i.Status, domain.InvoiceStatuses))
	}
	if i.Status == domain.InvoicePaid && i.PaidAt == nil {
		errs = append(errs, domain.NewValidationError("paid_at is required when status is paid"))
	}
	errs = append(errs, pkg.NotBefore("issued_at", i.IssuedAt, "due_at", i.DueAt))
	return pkg.FirstError(errs...)
}
