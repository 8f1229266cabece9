package employee

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/fieldops/internal/domain"
)

// Patch is the create and update input for an employee. Nil fields are left
// unchanged; an empty email clears it.
type Patch struct {
	FirstName   *string          `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string          `json:"last_name" binding:"omitempty,max=100"`
	Email       *string          `json:"email"`
	PhoneNumber *string          `json:"phone_number" binding:"omitempty,max=50"`
	Role        *string          `json:"role" binding:"omitempty,max=100"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
	Active      *bool            `json:"active"`
}

// Apply implements crud.Patch.
func (p Patch) Apply(e *domain.Employee) []string {
	var cols []string
	if p.FirstName != nil {
		e.FirstName = strings.TrimSpace(*p.FirstName)
		cols = append(cols, "first_name")
	}
	if p.LastName != nil {
		e.LastName = strings.TrimSpace(*p.LastName)
		cols = append(cols, "last_name")
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if email == "" {
			e.Email = nil
		} else {
			e.Email = &email
		}
		cols = append(cols, "email")
	}
	if p.PhoneNumber != nil {
		e.PhoneNumber = strings.TrimSpace(*p.PhoneNumber)
		cols = append(cols, "phone_number")
	}
	if p.Role != nil {
		e.Role = strings.TrimSpace(*p.Role)
		cols = append(cols, "role")
	}
	if p.HourlyRate != nil {
		e.HourlyRate = *p.HourlyRate
		cols = append(cols, "hourly_rate")
	}
	if p.Active != nil {
		active := *p.Active
		e.Active = &active
		cols = append(cols, "active")
	}
	return cols
}
