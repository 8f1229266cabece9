package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event statuses.
const (
	EventScheduled  = "scheduled"
	EventInProgress = "in_progress"
	EventDone       = "done"
	EventCancelled  = "cancelled"
)

// EventStatuses lists every valid event status.
var EventStatuses = []string{EventScheduled, EventInProgress, EventDone, EventCancelled}

// Event is a planner entry: a block of work on a project.
type Event struct {
	BaseModel
	ProjectID     uint              `gorm:"not null;index" json:"project_id"`
	ScopeOfWorkID *uint             `gorm:"index" json:"scope_of_work_id"`
	Title         string            `gorm:"size:200;not null" json:"title"`
	Notes         string            `gorm:"type:text" json:"notes"`
	Status        string            `gorm:"size:20;not null" json:"status"`
	StartAt       time.Time         `gorm:"not null" json:"start_at"`
	EndAt         time.Time         `gorm:"not null" json:"end_at"`
	Project       *Project          `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	ScopeOfWork   *ScopeOfWork      `gorm:"foreignKey:ScopeOfWorkID" json:"scope_of_work,omitempty"`
	Assignments   []EventAssignment `gorm:"foreignKey:EventID" json:"assignments,omitempty"`
	Quantities    []EventQuantity   `gorm:"foreignKey:EventID" json:"quantities,omitempty"`
}

// EventAssignment places an employee on an event.
type EventAssignment struct {
	BaseModel
	EventID    uint            `gorm:"not null;uniqueIndex:idx_event_employee" json:"event_id"`
	EmployeeID uint            `gorm:"not null;uniqueIndex:idx_event_employee" json:"employee_id"`
	Role       string          `gorm:"size:100" json:"role"`
	Hours      decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0" json:"hours"`
	Event      *Event          `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Employee   *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// EventQuantity records work completed against a project pay item during an event.
type EventQuantity struct {
	BaseModel
	EventID          uint            `gorm:"not null;index" json:"event_id"`
	ProjectPayItemID uint            `gorm:"not null;index" json:"project_pay_item_id"`
	Quantity         decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"quantity"`
	Event            *Event          `gorm:"foreignKey:EventID" json:"event,omitempty"`
	ProjectPayItem   *ProjectPayItem `gorm:"foreignKey:ProjectPayItemID" json:"project_pay_item,omitempty"`
}
