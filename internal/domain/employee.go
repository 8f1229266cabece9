package domain

import "github.com/shopspring/decimal"

// Employee is a crew member that can be assigned to events.
type Employee struct {
	BaseModel
	FirstName   string            `gorm:"size:100;not null" json:"first_name"`
	LastName    string            `gorm:"size:100;not null" json:"last_name"`
	Email       *string           `gorm:"size:255;uniqueIndex" json:"email"`
	PhoneNumber string            `gorm:"size:50" json:"phone_number"`
	Role        string            `gorm:"size:100" json:"role"`
	HourlyRate  decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0" json:"hourly_rate"`
	Active      *bool             `gorm:"not null;default:true" json:"active"`
	Assignments []EventAssignment `gorm:"foreignKey:EmployeeID" json:"assignments,omitempty"`
}

// IsActive reports whether the employee can take new assignments.
// A nil Active is treated as active, matching the column default.
func (e *Employee) IsActive() bool {
	return e.Active == nil || *e.Active
}
