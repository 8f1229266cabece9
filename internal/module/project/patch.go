package project

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/fieldops/internal/domain"
)

// Patch is the create and update input for a project.
type Patch struct {
	Name           *string          `json:"name" binding:"omitempty,max=200"`
	CustomerID     *uint            `json:"customer_id"`
	Status         *string          `json:"status"`
	Address        *string          `json:"address" binding:"omitempty,max=255"`
	StartDate      *time.Time       `json:"start_date"`
	EndDate        *time.Time       `json:"end_date"`
	ContractAmount *decimal.Decimal `json:"contract_amount"`
}

// Apply implements crud.Patch.
func (p Patch) Apply(pr *domain.Project) []string {
	var cols []string
	if p.Name != nil {
		pr.Name = strings.TrimSpace(*p.Name)
		cols = append(cols, "name")
	}
	if p.CustomerID != nil {
		pr.CustomerID = *p.CustomerID
		cols = append(cols, "customer_id")
	}
	if p.Status != nil {
		pr.Status = strings.TrimSpace(*p.Status)
		cols = append(cols, "status")
	}
	if p.Address != nil {
		pr.Address = strings.TrimSpace(*p.Address)
		cols = append(cols, "address")
	}
	if p.StartDate != nil {
		pr.StartDate = p.StartDate
		cols = append(cols, "start_date")
	}
	if p.EndDate != nil {
		pr.EndDate = p.EndDate
		cols = append(cols, "end_date")
	}
	if p.ContractAmount != nil {
		pr.ContractAmount = *p.ContractAmount
		cols = append(cols, "contract_amount")
	}
	return cols
}

// ScopePatch is the create and update input for a scope of work.
type ScopePatch struct {
	ProjectID   *uint   `json:"project_id"`
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description"`
}

// Apply implements crud.Patch.
func (p ScopePatch) Apply(s *domain.ScopeOfWork) []string {
	var cols []string
	if p.ProjectID != nil {
		s.ProjectID = *p.ProjectID
		cols = append(cols, "project_id")
	}
	if p.Title != nil {
		s.Title = strings.TrimSpace(*p.Title)
		cols = append(cols, "title")
	}
	if p.Description != nil {
		s.Description = *p.Description
		cols = append(cols, "description")
	}
	return cols
}

// PayItemPatch is the create and update input for a project pay item. A
// zero or omitted unit_price on create takes the catalogue price.
type PayItemPatch struct {
	ProjectID *uint            `json:"project_id"`
	PayItemID *uint            `json:"pay_item_id"`
	Quantity  *decimal.Decimal `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// Apply implements crud.Patch.
func (p PayItemPatch) Apply(i *domain.ProjectPayItem) []string {
	var cols []string
	if p.ProjectID != nil {
		i.ProjectID = *p.ProjectID
		cols = append(cols, "project_id")
	}
	if p.PayItemID != nil {
		i.PayItemID = *p.PayItemID
		cols = append(cols, "pay_item_id")
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
		cols = append(cols, "quantity")
	}
	if p.UnitPrice != nil {
		i.UnitPrice = *p.UnitPrice
		cols = append(cols, "unit_price")
	}
	return cols
}
