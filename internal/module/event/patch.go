package event

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/fieldops/internal/domain"
)

// Patch is the create and update input for an event. A scope_of_work_id of 0
// detaches the event from its scope.
type Patch struct {
	ProjectID     *uint      `json:"project_id"`
	ScopeOfWorkID *uint      `json:"scope_of_work_id"`
	Title         *string    `json:"title" binding:"omitempty,max=200"`
	Notes         *string    `json:"notes"`
	Status        *string    `json:"status"`
	StartAt       *time.Time `json:"start_at"`
	EndAt         *time.Time `json:"end_at"`
}

// Apply implements crud.Patch.
func (p Patch) Apply(e *domain.Event) []string {
	var cols []string
	if p.ProjectID != nil {
		e.ProjectID = *p.ProjectID
		cols = append(cols, "project_id")
	}
	if p.ScopeOfWorkID != nil {
		if *p.ScopeOfWorkID == 0 {
			e.ScopeOfWorkID = nil
		} else {
			id := *p.ScopeOfWorkID
			e.ScopeOfWorkID = &id
		}
		cols = append(cols, "scope_of_work_id")
	}
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
		cols = append(cols, "title")
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
		cols = append(cols, "notes")
	}
	if p.Status != nil {
		e.Status = strings.TrimSpace(*p.Status)
		cols = append(cols, "status")
	}
	if p.StartAt != nil {
		e.StartAt = *p.StartAt
		cols = append(cols, "start_at")
	}
	if p.EndAt != nil {
		e.EndAt = *p.EndAt
		cols = append(cols, "end_at")
	}
	return cols
}

// AssignmentPatch is the create and update input for an event assignment.
type AssignmentPatch struct {
	EventID    *uint            `json:"event_id"`
	EmployeeID *uint            `json:"employee_id"`
	Role       *string          `json:"role" binding:"omitempty,max=100"`
	Hours      *decimal.Decimal `json:"hours"`
}

// Apply implements crud.Patch.
func (p AssignmentPatch) Apply(a *domain.EventAssignment) []string {
	var cols []string
	if p.EventID != nil {
		a.EventID = *p.EventID
		cols = append(cols, "event_id")
	}
	if p.EmployeeID != nil {
		a.EmployeeID = *p.EmployeeID
		cols = append(cols, "employee_id")
	}
	if p.Role != nil {
		a.Role = strings.TrimSpace(*p.Role)
		cols = append(cols, "role")
	}
	if p.Hours != nil {
		a.Hours = *p.Hours
		cols = append(cols, "hours")
	}
	return cols
}

// QuantityPatch is the create and update input for an event quantity.
type QuantityPatch struct {
	EventID          *uint            `json:"event_id"`
	ProjectPayItemID *uint            `json:"project_pay_item_id"`
	Quantity         *decimal.Decimal `json:"quantity"`
}

// Apply implements crud.Patch.
func (p QuantityPatch) Apply(q *domain.EventQuantity) []string {
	var cols []string
	if p.EventID != nil {
		q.EventID = *p.EventID
		cols = append(cols, "event_id")
	}
	if p.ProjectPayItemID != nil {
		q.ProjectPayItemID = *p.ProjectPayItemID
		cols = append(cols, "project_pay_item_id")
	}
	if p.Quantity != nil {
		q.Quantity = *p.Quantity
		cols = append(cols, "quantity")
	}
	return cols
}
