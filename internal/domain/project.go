package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project statuses.
const (
	ProjectBidding   = "bidding"
	ProjectActive    = "active"
	ProjectOnHold    = "on_hold"
	ProjectCompleted = "completed"
	ProjectCancelled = "cancelled"
)

// ProjectStatuses lists every valid project status.
var ProjectStatuses = []string{ProjectBidding, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled}

// Project is a job performed for a customer.
type Project struct {
	BaseModel
	Name           string           `gorm:"size:200;not null" json:"name"`
	CustomerID     uint             `gorm:"not null;index" json:"customer_id"`
	Status         string           `gorm:"size:20;not null" json:"status"`
	Address        string           `gorm:"size:255" json:"address"`
	StartDate      *time.Time       `json:"start_date"`
	EndDate        *time.Time       `json:"end_date"`
	ContractAmount decimal.Decimal  `gorm:"type:decimal(14,2);not null;default:0" json:"contract_amount"`
	Customer       *Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ScopesOfWork   []ScopeOfWork    `gorm:"foreignKey:ProjectID" json:"scopes_of_work,omitempty"`
	PayItems       []ProjectPayItem `gorm:"foreignKey:ProjectID" json:"pay_items,omitempty"`
	Events         []Event          `gorm:"foreignKey:ProjectID" json:"events,omitempty"`
	Invoices       []Invoice        `gorm:"foreignKey:ProjectID" json:"invoices,omitempty"`
}

// ScopeOfWork is a described portion of a project's work.
type ScopeOfWork struct {
	BaseModel
	ProjectID   uint     `gorm:"not null;index" json:"project_id"`
	Title       string   `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Project     *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// ProjectPayItem is a pay item included in a project's contract, with the
// contracted quantity and the unit price agreed for this project.
type ProjectPayItem struct {
	BaseModel
	ProjectID uint            `gorm:"not null;uniqueIndex:idx_project_pay_item" json:"project_id"`
	PayItemID uint            `gorm:"not null;uniqueIndex:idx_project_pay_item" json:"pay_item_id"`
	Quantity  decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	Project   *Project        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	PayItem   *PayItem        `gorm:"foreignKey:PayItemID" json:"pay_item,omitempty"`
}

// ProjectSummary aggregates contract and billing figures for a project.
type ProjectSummary struct {
	ProjectID      uint            `json:"project_id"`
	ContractAmount decimal.Decimal `json:"contract_amount"`
	ScheduledValue decimal.Decimal `json:"scheduled_value"`
	InvoicedTotal  decimal.Decimal `json:"invoiced_total"`
	PaidTotal      decimal.Decimal `json:"paid_total"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	EventCount     int64           `json:"event_count"`
}
