// Package module implements the intents service module
package module

import (
	"intentcast/internal/modkit"
	"intentcast/internal/services/intents/domain"
	"intentcast/internal/services/intents/repo"
	"intentcast/internal/services/intents/service"
)

// Ports exposed by the intents module
type Ports struct {
	Writer domain.WriterPort
	Query  domain.QueryPort
}

// Module implements the intents service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new intents module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())

	m := &Module{deps: deps}
	m.ports = Ports{
		Writer: svc,
		Query:  svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "intents" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
