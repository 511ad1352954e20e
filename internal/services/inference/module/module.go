// Package module implements the inference service module
package module

import (
	"intentcast/internal/core/fusion"
	"intentcast/internal/core/rulecat"
	"intentcast/internal/core/scorer"
	"intentcast/internal/modkit"
	"intentcast/internal/services/inference/domain"
	"intentcast/internal/services/inference/service"
)

// Ports exposed by the inference module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the inference service module
type Module struct {
	deps  modkit.Deps
	name  string
	ports Ports
}

// New constructs the inference module. The catalog is embedded; a defective
// catalog is fatal here rather than surfacing as silent non-matches later
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("inference"),
	}, opts...)...)

	in, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("inference module: expected WithPorts(inference/domain.Ports)")
	}
	if in.Signals == nil || in.Writer == nil || in.Intents == nil {
		panic("inference module: Ports missing Signals, Writer or Intents")
	}

	cfg := FromConfig(deps.Cfg)

	catalog, err := rulecat.Load()
	if err != nil {
		return nil, err
	}
	fused := fusion.New(scorer.New(catalog), scorer.NewNoop())

	svc := service.New(in.Signals, in.Writer, in.Intents, fused, service.Config{
		BaselineWindowDays: cfg.BaselineWindowDays,
		PersistWindowDays:  cfg.PersistWindowDays,
		SourceWindowDays:   cfg.SourceWindowDays,
		TrustReadinessMin:  cfg.TrustReadinessMin,
	})

	m := &Module{deps: deps, name: b.Name}
	m.ports = Ports{Runner: svc}
	return m, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
