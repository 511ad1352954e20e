// Package module implements the signals service module
package module

import (
	"intentcast/internal/modkit"
	"intentcast/internal/services/signals/domain"
	"intentcast/internal/services/signals/repo"
	"intentcast/internal/services/signals/service"
)

// Ports exposed by the signals module
type Ports struct {
	Ingest domain.IngestPort
	Query  domain.QueryPort
}

// Module implements the signals service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new signals module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())

	m := &Module{deps: deps}
	m.ports = Ports{
		Ingest: svc,
		Query:  svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "signals" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
