package crud

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/fieldops/internal/pkg"
)

// DeleteMode selects the success response of a delete.
type DeleteMode int

const (
	// DeleteMessage responds 200 with {"message": "..."}.
	DeleteMessage DeleteMode = iota
	// DeleteNoContent responds 204 with an empty body.
	DeleteNoContent
)

const invalidIDMessage = "invalid id"

// ResourceConfig describes how a Resource is exposed over HTTP.
type ResourceConfig struct {
	// Path is the collection path below the API group, e.g. "customers".
	Path string
	// Filters maps accepted query keys to the columns they filter on.
	Filters map[string]string
	// Sortable lists the columns accepted by ?sort=column:asc|desc.
	Sortable []string
	// Expand lists the relations preloaded when ?expanded=true.
	Expand     []string
	DeleteMode DeleteMode
}

// Resource is a JSON REST controller for one entity backed by a Service.
type Resource[T any, P Patch[T]] struct {
	svc *Service[T, P]
	cfg ResourceConfig
}

// NewResource creates a Resource. Panics if svc is nil.
func NewResource[T any, P Patch[T]](svc *Service[T, P], cfg ResourceConfig) *Resource[T, P] {
	if svc == nil {
		panic("crud.NewResource: service must not be nil")
	}
	return &Resource[T, P]{svc: svc, cfg: cfg}
}

// Service returns the service behind the resource.
func (r *Resource[T, P]) Service() *Service[T, P] {
	return r.svc
}

// RegisterRoutes mounts the collection and item routes on api.
func (r *Resource[T, P]) RegisterRoutes(api *gin.RouterGroup) {
	base := "/" + r.cfg.Path
	api.GET(base, r.Get)
	api.POST(base, r.Post)
	api.GET(base+"/:id", r.Get)
	api.PATCH(base+"/:id", r.Patch)
	api.DELETE(base+"/:id", r.Delete)
}

// Get handles GET /<path> and GET /<path>/:id.
//
// With an id it returns that record. Without one it returns the collection,
// filtered by the configured query keys; ?page or ?pageSize switches the body
// to {data, pagination}, otherwise it is a plain array honouring ?skip/?take.
func (r *Resource[T, P]) Get(c *gin.Context) {
	query := pkg.ParseQueryParams(c)
	opts := r.queryOptions(query)
	ctx := c.Request.Context()

	if _, ok := pkg.ParsePathParams(c)["id"]; ok {
		id, ok := ParseID(c)
		if !ok {
			return
		}
		entity, err := r.svc.GetByID(ctx, id, opts)
		if err != nil {
			pkg.Error(c, err)
			return
		}
		pkg.Success(c, http.StatusOK, entity)
		return
	}

	filters := Where(pkg.Filters(query, r.cfg.Filters))
	pagination := pkg.ParsePagination(query)

	if pagination.Page > 0 {
		page, err := r.svc.ListPaginated(ctx, filters, pagination, opts)
		if err != nil {
			pkg.Error(c, err)
			return
		}
		pkg.Success(c, http.StatusOK, page)
		return
	}

	items, err := r.svc.List(ctx, filters, pagination, opts)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, http.StatusOK, items)
}

// Post handles POST /<path>.
func (r *Resource[T, P]) Post(c *gin.Context) {
	var input P
	if err := pkg.ParseBody(c, &input); err != nil {
		pkg.Error(c, err)
		return
	}

	var entity T
	input.Apply(&entity)

	created, err := r.svc.Create(c.Request.Context(), &entity)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, http.StatusCreated, created)
}

// Patch handles PATCH /<path>/:id.
func (r *Resource[T, P]) Patch(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}

	var patch P
	if err := pkg.ParseBody(c, &patch); err != nil {
		pkg.Error(c, err)
		return
	}

	updated, err := r.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, http.StatusOK, updated)
}

// Delete handles DELETE /<path>/:id.
func (r *Resource[T, P]) Delete(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}

	if _, err := r.svc.Delete(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	if r.cfg.DeleteMode == DeleteNoContent {
		pkg.NoContent(c)
		return
	}
	pkg.Success(c, http.StatusOK, pkg.MessageBody{
		Message: r.svc.Name() + " deleted successfully",
	})
}

func (r *Resource[T, P]) queryOptions(query map[string]any) QueryOptions {
	opts := QueryOptions{OrderBy: []Order{{Column: "id"}}}
	if pkg.ParseBool(query["expanded"]) {
		opts.Include = r.cfg.Expand
	}
	if field, desc, ok := pkg.ParseSort(pkg.FirstValue(query["sort"]), r.cfg.Sortable); ok {
		opts.OrderBy = []Order{{Column: field, Desc: desc}}
	}
	return opts
}

// ParseID reads the :id path parameter. On failure it writes a 400 response
// and returns false.
func ParseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		pkg.BadRequest(c, invalidIDMessage)
		return 0, false
	}
	return uint(id), true
}
