package billing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/fieldops/internal/domain"
)

// PaymentTypePatch is the create and update input for a payment type.
type PaymentTypePatch struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

// Apply implements crud.Patch.
func (p PaymentTypePatch) Apply(t *domain.PaymentType) []string {
	var cols []string
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
		cols = append(cols, "name")
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
		cols = append(cols, "description")
	}
	return cols
}

// PayItemPatch is the create and update input for a pay item.
type PayItemPatch struct {
	Number      *string          `json:"number" binding:"omitempty,max=50"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
	Unit        *string          `json:"unit" binding:"omitempty,max=20"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// Apply implements crud.Patch.
func (p PayItemPatch) Apply(i *domain.PayItem) []string {
	var cols []string
	if p.Number != nil {
		i.Number = strings.TrimSpace(*p.Number)
		cols = append(cols, "number")
	}
	if p.Description != nil {
		i.Description = strings.TrimSpace(*p.Description)
		cols = append(cols, "description")
	}
	if p.Unit != nil {
		i.Unit = strings.TrimSpace(*p.Unit)
		cols = append(cols, "unit")
	}
	if p.UnitPrice != nil {
		i.UnitPrice = *p.UnitPrice
		cols = append(cols, "unit_price")
	}
	return cols
}

// InvoicePatch is the create and update input for an invoice. A
// payment_type_id of 0 clears the payment type.
type InvoicePatch struct {
	ProjectID     *uint            `json:"project_id"`
	PaymentTypeID *uint            `json:"payment_type_id"`
	Number        *string          `json:"number" binding:"omitempty,max=50"`
	Amount        *decimal.Decimal `json:"amount"`
	Status        *string          `json:"status"`
	IssuedAt      *time.Time       `json:"issued_at"`
	DueAt         *time.Time       `json:"due_at"`
	PaidAt        *time.Time       `json:"paid_at"`
}

// Apply implements crud.Patch.
func (p InvoicePatch) Apply(i *domain.Invoice) []string {
	var cols []string
	if p.ProjectID != nil {
		i.ProjectID = *p.ProjectID
		cols = append(cols, "project_id")
	}
	if p.PaymentTypeID != nil {
		if *p.PaymentTypeID == 0 {
			i.PaymentTypeID = nil
		} else {
			id := *p.PaymentTypeID
			i.PaymentTypeID = &id
		}
		cols = append(cols, "payment_type_id")
	}
	if p.Number != nil {
		i.Number = strings.TrimSpace(*p.Number)
		cols = append(cols, "number")
	}
	if p.Amount != nil {
		i.Amount = *p.Amount
		cols = append(cols, "amount")
	}
	if p.Status != nil {
		i.Status = strings.TrimSpace(*p.Status)
		cols = append(cols, "status")
	}
	if p.IssuedAt != nil {
		i.IssuedAt = p.IssuedAt
		cols = append(cols, "issued_at")
	}
	if p.DueAt != nil {
		i.DueAt = p.DueAt
		cols = append(cols, "due_at")
	}
	if p.PaidAt != nil {
		i.PaidAt = p.PaidAt
		cols = append(cols, "paid_at")
	}
	return cols
}
