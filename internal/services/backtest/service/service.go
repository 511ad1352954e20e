// Package service provides the backtest KPI engine implementation
package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"intentcast/internal/modkit/repokit"
	"intentcast/internal/platform/logger"
	ptime "intentcast/internal/platform/time"
	"intentcast/internal/services/backtest/domain"
	"intentcast/internal/services/backtest/repo"
	intdom "intentcast/internal/services/intents/domain"
	outdom "intentcast/internal/services/outcomes/domain"
)

// Config for the backtest service
type Config struct {
	DefaultK          int
	DefaultWindowDays int
	DefaultThreshold  float64
}

func (c *Config) defaults() {
	if c.DefaultK <= 0 {
		c.DefaultK = 5
	}
	if c.DefaultWindowDays <= 0 {
		c.DefaultWindowDays = 365
	}
	if c.DefaultThreshold <= 0 {
		c.DefaultThreshold = 70
	}
}

// Service implements domain.RunnerPort and domain.MetricsPort
type Service struct {
	rw       repokit.TxRunner
	binder   repokit.Binder[repo.Storage]
	mirror   *repo.Mirror
	intents  intdom.QueryPort
	outcomes outdom.QueryPort
	cfg      Config
	log      *logger.Logger
	now      func() time.Time
}

// New constructs the backtest service
func New(
	rw repokit.TxRunner,
	binder repokit.Binder[repo.Storage],
	mirror *repo.Mirror,
	intents intdom.QueryPort,
	outcomes outdom.QueryPort,
	cfg Config,
) *Service {
	cfg.defaults()
	return &Service{
		rw:       rw,
		binder:   binder,
		mirror:   mirror,
		intents:  intents,
		outcomes: outcomes,
		cfg:      cfg,
		log:      logger.Named("backtest"),
		now:      time.Now,
	}
}

// Run implements domain.RunnerPort. Every outcome in the lookback gets a
// row: matched ones carry the latest prior hypothesis of a mapped intent
// type, the rest record the miss
func (s *Service) Run(ctx context.Context, companyID int64, lookbackDays int) ([]domain.Result, error) {
	since := s.now().AddDate(0, 0, -lookbackDays)
	outcomes, err := s.outcomes.ListByCompany(ctx, companyID, &since)
	if err != nil {
		return nil, err
	}
	hyps, err := s.intents.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	runAt := s.now().UTC()
	results := matchOutcomes(runID, runAt, companyID, outcomes, hyps)

	err = repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		return repokit.MustBind(s.binder, q).InsertResults(ctx, results)
	})
	if err != nil {
		return nil, err
	}
	if err := s.mirror.MirrorResults(ctx, results); err != nil {
		// the run is durable in Postgres; analytics can be refilled
		s.log.Warn().Err(err).Str("run_id", runID).Msg("backtest mirror failed")
	}

	matched := 0
	for _, r := range results {
		if r.Matched {
			matched++
		}
	}
	s.log.Info().
		Str("run_id", runID).
		Int64("company_id", companyID).
		Int("outcomes", len(results)).
		Int("matched", matched).
		Msg("backtest run complete")
	return results, nil
}

// matchOutcomes pairs each outcome with the latest hypothesis of a mapped
// intent type created at or before the outcome
func matchOutcomes(
	runID string,
	runAt time.Time,
	companyID int64,
	outcomes []outdom.Outcome,
	hyps []intdom.Hypothesis,
) []domain.Result {
	byType := make(map[string][]intdom.Hypothesis)
	for _, h := range hyps {
		byType[h.IntentType] = append(byType[h.IntentType], h)
	}

	results := make([]domain.Result, 0, len(outcomes))
	for _, o := range outcomes {
		r := domain.Result{
			RunID:       runID,
			CompanyID:   companyID,
			OutcomeID:   o.ID,
			OutcomeType: o.Type,
			OutcomeAt:   o.OccurredAt,
			RunAt:       runAt,
		}

		var best *intdom.Hypothesis
		for _, it := range domain.OutcomeIntents[o.Type] {
			for i := range byType[it] {
				h := &byType[it][i]
				if h.CreatedAt.After(o.OccurredAt) {
					continue
				}
				if best == nil || h.CreatedAt.After(best.CreatedAt) {
					best = h
				}
			}
		}
		if best != nil {
			// whole days
			lag := float64(int(o.OccurredAt.Sub(best.CreatedAt).Hours() / 24))
			r.HypothesisID = best.ID
			r.IntentType = best.IntentType
			r.IntentAt = ptime.Ptr(best.CreatedAt)
			r.LagDays = &lag
			r.Matched = true
		}
		results = append(results, r)
	}
	return results
}

// ComputeKPIs implements domain.MetricsPort
func (s *Service) ComputeKPIs(ctx context.Context, companyID int64, p domain.KPIParams) (domain.KPIs, error) {
	if p.K <= 0 {
		p.K = s.cfg.DefaultK
	}
	if p.WindowDays <= 0 {
		p.WindowDays = s.cfg.DefaultWindowDays
	}
	if p.ReadinessThreshold <= 0 {
		p.ReadinessThreshold = s.cfg.DefaultThreshold
	}

	outcomes, err := s.outcomes.ListByCompany(ctx, companyID, nil)
	if err != nil {
		return domain.KPIs{}, err
	}
	hyps, err := s.intents.ListByCompany(ctx, companyID)
	if err != nil {
		return domain.KPIs{}, err
	}
	return computeKPIs(hyps, outcomes, p, s.now().UTC()), nil
}

// BuildReport implements domain.MetricsPort
func (s *Service) BuildReport(results []domain.Result) []domain.ReportRow {
	type agg struct {
		outcomes int
		matched  int
		lagSum   float64
		lagCount int
	}
	byType := map[string]*agg{}
	for _, r := range results {
		a := byType[r.OutcomeType]
		if a == nil {
			a = &agg{}
			byType[r.OutcomeType] = a
		}
		a.outcomes++
		if r.Matched && r.LagDays != nil {
			a.matched++
			a.lagSum += *r.LagDays
			a.lagCount++
		}
	}

	rows := make([]domain.ReportRow, 0, len(byType))
	for ot, a := range byType {
		row := domain.ReportRow{
			OutcomeType: ot,
			Outcomes:    a.outcomes,
			Matched:     a.matched,
		}
		if a.outcomes > 0 {
			row.MatchRate = float64(a.matched) / float64(a.outcomes)
		}
		if a.lagCount > 0 {
			avg := a.lagSum / float64(a.lagCount)
			row.AvgLagDays = &avg
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].OutcomeType < rows[j].OutcomeType })
	return rows
}

// Report implements domain.MetricsPort. It summarizes the most recent
// persisted run for the company
func (s *Service) Report(ctx context.Context, companyID int64) ([]domain.ReportRow, error) {
	var results []domain.Result
	err := repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		xs, err := repokit.MustBind(s.binder, q).ListLatestRun(ctx, companyID)
		results = xs
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.BuildReport(results), nil
}
