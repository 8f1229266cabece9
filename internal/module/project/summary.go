package project

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/crud"
	"github.com/simp-lee/fieldops/internal/domain"
)

// Summarizer builds the pay-application view of a project.
type Summarizer struct {
	projects *Service
	payItems *crud.Repository[domain.ProjectPayItem]
	invoices *crud.Repository[domain.Invoice]
	events   *crud.Repository[domain.Event]
}

// NewSummarizer creates a Summarizer reading through projects and db.
func NewSummarizer(db *gorm.DB, projects *Service) *Summarizer {
	return &Summarizer{
		projects: projects,
		payItems: crud.NewRepository[domain.ProjectPayItem](db),
		invoices: crud.NewRepository[domain.Invoice](db),
		events:   crud.NewRepository[domain.Event](db),
	}
}

// Summary returns the contract, billing and schedule figures for project id.
//
// The scheduled value is the sum of quantity x unit price over the project's
// pay items. Sent and paid invoices count as invoiced; drafts and voided
// invoices are ignored.
func (s *Summarizer) Summary(ctx context.Context, id uint) (*domain.ProjectSummary, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		items    []domain.ProjectPayItem
		invoices []domain.Invoice
		events   int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = s.payItems.FindMany(gctx, crud.Where{"project_id": id}, crud.QueryOptions{})
		return err
	})
	g.Go(func() (err error) {
		invoices, err = s.invoices.FindMany(gctx, crud.Where{
			"project_id": id,
			"status":     []string{domain.InvoiceSent, domain.InvoicePaid},
		}, crud.QueryOptions{})
		return err
	})
	g.Go(func() (err error) {
		events, err = s.events.Count(gctx, crud.Where{"project_id": id})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &domain.ProjectSummary{
		ProjectID:      p.ID,
		ContractAmount: p.ContractAmount,
		ScheduledValue: decimal.Zero,
		InvoicedTotal:  decimal.Zero,
		PaidTotal:      decimal.Zero,
		EventCount:     events,
	}
	for _, it := range items {
		sum.ScheduledValue = sum.ScheduledValue.Add(it.Quantity.Mul(it.UnitPrice))
	}
	for _, inv := range invoices {
		sum.InvoicedTotal = sum.InvoicedTotal.Add(inv.Amount)
		if inv.Status == domain.InvoicePaid {
			sum.PaidTotal = sum.PaidTotal.Add(inv.Amount)
		}
	}
	sum.Outstanding = sum.InvoicedTotal.Sub(sum.PaidTotal)
	return sum, nil
}
