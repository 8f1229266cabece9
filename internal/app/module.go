package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/module/audit"
	"github.com/simp-lee/fieldops/internal/module/billing"
	"github.com/simp-lee/fieldops/internal/module/customer"
	"github.com/simp-lee/fieldops/internal/module/employee"
	"github.com/simp-lee/fieldops/internal/module/event"
	"github.com/simp-lee/fieldops/internal/module/project"
)

// Module defines the contract for a self-registering business module.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup)
}

// newModules builds every business module on db. Projects and invoices
// write audit entries through rec.
func newModules(db *gorm.DB, rec *audit.Recorder) []Module {
	return []Module{
		customer.NewModule(db),
		employee.NewModule(db),
		project.NewModule(db, rec),
		event.NewModule(db),
		billing.NewModule(db, rec),
	}
}
