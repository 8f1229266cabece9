package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses.
const (
	InvoiceDraft = "draft"
	InvoiceSent  = "sent"
	InvoicePaid  = "paid"
	InvoiceVoid  = "void"
)

// InvoiceStatuses lists every valid invoice status.
var InvoiceStatuses = []string{InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceVoid}

// PaymentType is a method of payment accepted on invoices (check, ACH, ...).
type PaymentType struct {
	BaseModel
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}

// PayItem is a catalogue entry for billable work or material.
type PayItem struct {
	BaseModel
	Number      string          `gorm:"size:50;uniqueIndex;not null" json:"number"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Unit        string          `gorm:"size:20;not null" json:"unit"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
}

// Invoice is a pay application billed against a project.
type Invoice struct {
	BaseModel
	ProjectID     uint            `gorm:"not null;index" json:"project_id"`
	PaymentTypeID *uint           `gorm:"index" json:"payment_type_id"`
	Number        string          `gorm:"size:50;uniqueIndex;not null" json:"number"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"amount"`
	Status        string          `gorm:"size:20;not null" json:"status"`
	IssuedAt      *time.Time      `json:"issued_at"`
	DueAt         *time.Time      `json:"due_at"`
	PaidAt        *time.Time      `json:"paid_at"`
	Project       *Project        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	PaymentType   *PaymentType    `gorm:"foreignKey:PaymentTypeID" json:"payment_type,omitempty"`
}

// AuditEntry records a change made through the API.
type AuditEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Entity    string    `gorm:"size:50;not null;index" json:"entity"`
	EntityID  uint      `gorm:"not null;index" json:"entity_id"`
	Action    string    `gorm:"size:20;not null" json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// Models returns every persisted model, in migration order.
func Models() []any {
	return []any{
		&Customer{},
		&Employee{},
		&PaymentType{},
		&PayItem{},
		&Project{},
		&ScopeOfWork{},
		&ProjectPayItem{},
		&Event{},
		&EventAssignment{},
		&EventQuantity{},
		&Invoice{},
		&AuditEntry{},
	}
}
