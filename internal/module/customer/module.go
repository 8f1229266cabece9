package customer

import (
	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/crud"
	"github.com/simp-lee/fieldops/internal/domain"
)

// Module exposes customers at /api/customers.
type Module struct {
	*crud.Resource[domain.Customer, Patch]
}

// NewModule creates the customer module.
func NewModule(db *gorm.DB) *Module {
	return &Module{
		Resource: crud.NewResource(NewService(db), crud.ResourceConfig{
			Path: "customers",
			Filters: map[string]string{
				"name":  "name",
				"email": "email",
			},
			Sortable: []string{"id", "name", "email", "created_at"},
			Expand:   []string{"Projects"},
		}),
	}
}
