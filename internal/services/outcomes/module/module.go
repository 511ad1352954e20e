// Package module implements the outcomes service module
package module

import (
	"context"
	"time"

	"intentcast/internal/modkit"
	"intentcast/internal/modkit/repokit"
	"intentcast/internal/services/outcomes/domain"
	"intentcast/internal/services/outcomes/repo"
)

// Ports exposed by the outcomes module
type Ports struct {
	Query domain.QueryPort
	Seed  domain.SeedPort
}

// Module implements the outcomes service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new outcomes module
func New(deps modkit.Deps) *Module {
	svc := &service{rw: deps.PG, binder: repo.NewPG()}

	m := &Module{deps: deps}
	m.ports = Ports{
		Query: svc,
		Seed:  svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "outcomes" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// service is thin enough to live beside the module; outcomes have no
// business rules beyond persistence
type service struct {
	rw     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
}

func (s *service) Insert(ctx context.Context, xs []domain.Outcome) (int, error) {
	var inserted int
	err := repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		n, err := repokit.MustBind(s.binder, q).Insert(ctx, xs)
		inserted = n
		return err
	})
	return inserted, err
}

func (s *service) ListByCompany(ctx context.Context, companyID int64, since *time.Time) ([]domain.Outcome, error) {
	var out []domain.Outcome
	err := repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		xs, err := repokit.MustBind(s.binder, q).ListByCompany(ctx, companyID, since)
		out = xs
		return err
	})
	return out, err
}
