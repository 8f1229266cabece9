package billing

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/crud"
	"github.com/simp-lee/fieldops/internal/domain"
	"github.com/simp-lee/fieldops/internal/module/audit"
)

// Module exposes payment types, pay items and invoices.
type Module struct {
	PaymentTypes *crud.Resource[domain.PaymentType, PaymentTypePatch]
	PayItems     *crud.Resource[domain.PayItem, PayItemPatch]
	Invoices     *crud.Resource[domain.Invoice, InvoicePatch]
}

// NewModule creates the billing module.
func NewModule(db *gorm.DB, rec *audit.Recorder) *Module {
	return &Module{
		PaymentTypes: crud.NewResource(NewPaymentTypeService(db), crud.ResourceConfig{
			Path:     "payment-types",
			Filters:  map[string]string{"name": "name"},
			Sortable: []string{"id", "name"},
		}),
		PayItems: crud.NewResource(NewPayItemService(db), crud.ResourceConfig{
			Path: "pay-items",
			Filters: map[string]string{
				"number": "number",
				"unit":   "unit",
			},
			Sortable: []string{"id", "number", "description", "unit_price"},
		}),
		Invoices: crud.NewResource(NewInvoiceService(db, rec), crud.ResourceConfig{
			Path: "invoices",
			Filters: map[string]string{
				"status":          "status",
				"number":          "number",
				"project_id":      "project_id",
				"projectId":       "project_id",
				"payment_type_id": "payment_type_id",
			},
			Sortable: []string{"id", "number", "amount", "status", "issued_at", "due_at", "created_at"},
			Expand:   []string{"Project", "PaymentType"},
		}),
	}
}

// RegisterRoutes mounts every billing resource on api.
func (m *Module) RegisterRoutes(api *gin.RouterGroup) {
	m.PaymentTypes.RegisterRoutes(api)
	m.PayItems.RegisterRoutes(api)
	m.Invoices.RegisterRoutes(api)
}
