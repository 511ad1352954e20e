package domain

import (
	"context"

	intdom "intentcast/internal/services/intents/domain"
	outdom "intentcast/internal/services/outcomes/domain"
)

// Ports bundles the cross-module dependencies the backtest module needs.
// Callers pass it via modkit.WithPorts at construction time
type Ports struct {
	Intents  intdom.QueryPort
	Outcomes outdom.QueryPort
}

// RunnerPort replays outcomes against persisted hypotheses
type RunnerPort interface {
	Run(ctx context.Context, companyID int64, lookbackDays int) ([]Result, error)
}

// MetricsPort computes KPIs and run reports
type MetricsPort interface {
	ComputeKPIs(ctx context.Context, companyID int64, p KPIParams) (KPIs, error)
	BuildReport(results []Result) []ReportRow
	Report(ctx context.Context, companyID int64) ([]ReportRow, error)
}
