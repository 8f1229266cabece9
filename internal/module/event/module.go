package event

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/crud"
	"github.com/simp-lee/fieldops/internal/domain"
)

// Module exposes the planner: events with their assignments and recorded
// quantities.
type Module struct {
	Events      *crud.Resource[domain.Event, Patch]
	Assignments *crud.Resource[domain.EventAssignment, AssignmentPatch]
	Quantities  *crud.Resource[domain.EventQuantity, QuantityPatch]
}

// NewModule creates the event module.
func NewModule(db *gorm.DB) *Module {
	return &Module{
		Events: crud.NewResource(NewService(db), crud.ResourceConfig{
			Path: "events",
			Filters: map[string]string{
				"status":           "status",
				"project_id":       "project_id",
				"projectId":        "project_id",
				"scope_of_work_id": "scope_of_work_id",
			},
			Sortable: []string{"id", "title", "status", "start_at", "end_at"},
			Expand:   []string{"Project", "ScopeOfWork", "Assignments", "Quantities"},
		}),
		Assignments: crud.NewResource(NewAssignmentService(db), crud.ResourceConfig{
			Path: "event-assignments",
			Filters: map[string]string{
				"event_id":    "event_id",
				"eventId":     "event_id",
				"employee_id": "employee_id",
				"employeeId":  "employee_id",
			},
			Sortable:   []string{"id", "hours"},
			Expand:     []string{"Event", "Employee"},
			DeleteMode: crud.DeleteNoContent,
		}),
		Quantities: crud.NewResource(NewQuantityService(db), crud.ResourceConfig{
			Path: "event-quantities",
			Filters: map[string]string{
				"event_id":            "event_id",
				"eventId":             "event_id",
				"project_pay_item_id": "project_pay_item_id",
			},
			Sortable:   []string{"id", "quantity"},
			Expand:     []string{"Event", "ProjectPayItem"},
			DeleteMode: crud.DeleteNoContent,
		}),
	}
}

// RegisterRoutes mounts every event resource on api.
func (m *Module) RegisterRoutes(api *gin.RouterGroup) {
	m.Events.RegisterRoutes(api)
	m.Assignments.RegisterRoutes(api)
	m.Quantities.RegisterRoutes(api)
}
