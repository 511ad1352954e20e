// Package module implements the backtest service module
package module

import (
	"intentcast/internal/modkit"
	"intentcast/internal/services/backtest/domain"
	"intentcast/internal/services/backtest/repo"
	"intentcast/internal/services/backtest/service"
)

// Ports exposed by the backtest module
type Ports struct {
	Runner  domain.RunnerPort
	Metrics domain.MetricsPort
}

// Module implements the backtest service module
type Module struct {
	deps  modkit.Deps
	name  string
	ports Ports
}

// New constructs a new backtest module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("backtest"),
	}, opts...)...)

	in, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("backtest module: expected WithPorts(backtest/domain.Ports)")
	}
	if in.Intents == nil || in.Outcomes == nil {
		panic("backtest module: Ports missing Intents or Outcomes")
	}

	cfg := FromConfig(deps.Cfg)

	svc := service.New(
		deps.PG,
		repo.NewPG(),
		repo.NewMirror(deps.CH),
		in.Intents,
		in.Outcomes,
		service.Config{
			DefaultK:          cfg.DefaultK,
			DefaultWindowDays: cfg.DefaultWindowDays,
			DefaultThreshold:  cfg.DefaultThreshold,
		},
	)

	m := &Module{deps: deps, name: b.Name}
	m.ports = Ports{
		Runner:  svc,
		Metrics: svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
