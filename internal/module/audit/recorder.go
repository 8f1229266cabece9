// Package audit keeps a best-effort trail of changes made through the API.
package audit

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/crud"
	"github.com/simp-lee/fieldops/internal/domain"
)

// Actions recorded in the trail.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
)

// Recorder writes audit entries. A failed write is logged and swallowed so
// that it never fails the operation being audited.
type Recorder struct {
	repo *crud.Repository[domain.AuditEntry]
}

// NewRecorder creates a Recorder backed by db.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{repo: crud.NewRepository[domain.AuditEntry](db)}
}

// Record stores an entry for action on entity id. It never returns an error.
func (r *Recorder) Record(ctx context.Context, entity string, id uint, action string) {
	if r == nil {
		return
	}
	entry := &domain.AuditEntry{Entity: entity, EntityID: id, Action: action}
	if _, err := r.repo.Create(ctx, entry); err != nil {
		slog.WarnContext(ctx, "audit record failed",
			slog.String("entity", entity),
			slog.Uint64("entity_id", uint64(id)),
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}

// Entries returns the trail for one record, oldest first.
func (r *Recorder) Entries(ctx context.Context, entity string, id uint) ([]domain.AuditEntry, error) {
	return r.repo.FindMany(ctx, crud.Where{"entity": entity, "entity_id": id}, crud.QueryOptions{
		OrderBy: []crud.Order{{Column: "id"}},
	})
}

// identified is satisfied by pointers to domain models.
type identified[T any] interface {
	*T
	GetID() uint
}

// AfterCreate returns a service hook that records a create of entity.
func AfterCreate[T any, PT identified[T]](r *Recorder, entity string) func(context.Context, *T) error {
	return func(ctx context.Context, v *T) error {
		r.Record(ctx, entity, PT(v).GetID(), ActionCreate)
		return nil
	}
}

// AfterUpdate returns a service hook that records an update of entity.
func AfterUpdate[T any, PT identified[T]](r *Recorder, entity string) func(context.Context, *T) error {
	return func(ctx context.Context, v *T) error {
		r.Record(ctx, entity, PT(v).GetID(), ActionUpdate)
		return nil
	}
}
