package employee

import (
	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/crud"
	"github.com/simp-lee/fieldops/internal/domain"
)

// Module exposes employees at /api/employees.
type Module struct {
	*crud.Resource[domain.Employee, Patch]
}

// NewModule creates the employee module.
func NewModule(db *gorm.DB) *Module {
	return &Module{
		Resource: crud.NewResource(NewService(db), crud.ResourceConfig{
			Path: "employees",
			Filters: map[string]string{
				"role":       "role",
				"email":      "email",
				"last_name":  "last_name",
				"first_name": "first_name",
			},
			Sortable:   []string{"id", "first_name", "last_name", "role", "hourly_rate", "created_at"},
			Expand:     []string{"Assignments"},
			DeleteMode: crud.DeleteNoContent,
		}),
	}
}
