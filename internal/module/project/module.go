package project

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/crud"
	"github.com/simp-lee/fieldops/internal/domain"
	"github.com/simp-lee/fieldops/internal/module/audit"
	"github.com/simp-lee/fieldops/internal/pkg"
)

// Module exposes projects, their scopes of work and pay items, and the
// project summary at /api/projects/:id/summary.
type Module struct {
	Projects *crud.Resource[domain.Project, Patch]
	Scopes   *crud.Resource[domain.ScopeOfWork, ScopePatch]
	PayItems *crud.Resource[domain.ProjectPayItem, PayItemPatch]

	summaries *Summarizer
}

// NewModule creates the project module.
func NewModule(db *gorm.DB, rec *audit.Recorder) *Module {
	projects := NewService(db, rec)
	return &Module{
		Projects: crud.NewResource(projects, crud.ResourceConfig{
			Path: "projects",
			Filters: map[string]string{
				"status":      "status",
				"name":        "name",
				"customer_id": "customer_id",
				"customerId":  "customer_id",
			},
			Sortable: []string{"id", "name", "status", "start_date", "end_date", "created_at"},
			Expand:   []string{"Customer", "ScopesOfWork", "PayItems"},
		}),
		Scopes: crud.NewResource(NewScopeService(db), crud.ResourceConfig{
			Path: "scopes-of-work",
			Filters: map[string]string{
				"project_id": "project_id",
				"projectId":  "project_id",
			},
			Sortable: []string{"id", "title"},
			Expand:   []string{"Project"},
		}),
		PayItems: crud.NewResource(NewPayItemService(db), crud.ResourceConfig{
			Path: "project-pay-items",
			Filters: map[string]string{
				"project_id":  "project_id",
				"projectId":   "project_id",
				"pay_item_id": "pay_item_id",
				"payItemId":   "pay_item_id",
			},
			Sortable: []string{"id", "quantity", "unit_price"},
			Expand:   []string{"PayItem"},
		}),
		summaries: NewSummarizer(db, projects),
	}
}

// RegisterRoutes mounts every project resource on api.
func (m *Module) RegisterRoutes(api *gin.RouterGroup) {
	m.Projects.RegisterRoutes(api)
	m.Scopes.RegisterRoutes(api)
	m.PayItems.RegisterRoutes(api)
	api.GET("/projects/:id/summary", m.summary)
}

func (m *Module) summary(c *gin.Context) {
	id, ok := crud.ParseID(c)
	if !ok {
		return
	}
	sum, err := m.summaries.Summary(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, http.StatusOK, sum)
}
