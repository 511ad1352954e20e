// Package module implements the translator service module
package module

import (
	"intentcast/internal/modkit"
	"intentcast/internal/services/translator/domain"
	"intentcast/internal/services/translator/service"
)

// Ports exposed by the translator module
type Ports struct {
	Translate domain.TranslatePort
}

// Module implements the translator service module
type Module struct {
	deps  modkit.Deps
	name  string
	ports Ports
}

// New constructs a new translator module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("translator"),
	}, opts...)...)

	in, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("translator module: expected WithPorts(translator/domain.Ports)")
	}
	if in.Intents == nil {
		panic("translator module: Ports missing Intents")
	}

	m := &Module{deps: deps, name: b.Name}
	m.ports = Ports{Translate: service.New(in.Intents)}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
