package service

import (
	"testing"

	"intentcast/internal/services/backtest/domain"
	intdom "intentcast/internal/services/intents/domain"
	outdom "intentcast/internal/services/outcomes/domain"
)

func TestMatchOutcomes_LatestPriorWins(t *testing.T) {
	hyps := []intdom.Hypothesis{
		hyp("old", "IPO_PREP", 80, 0.8, 10),
		hyp("newer", "IPO_PREP", 60, 0.6, 40),
		hyp("late", "IPO_PREP", 95, 0.95, 150),
	}
	outcomes := []outdom.Outcome{outcome(1, "IPO", 100)}

	results := matchOutcomes("run-1", day(160), 7, outcomes, hyps)
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0]
	if !r.Matched {
		t.Fatal("expected a match")
	}
	if r.HypothesisID != "newer" {
		t.Fatalf("matched %q, want the latest prior hypothesis", r.HypothesisID)
	}
	if r.LagDays == nil || *r.LagDays != 60 {
		t.Fatalf("lag = %v, want 60 days", r.LagDays)
	}
	if r.RunID != "run-1" {
		t.Fatalf("run id = %q", r.RunID)
	}
}

func TestMatchOutcomes_MappedTypesOnly(t *testing.T) {
	hyps := []intdom.Hypothesis{
		hyp("ipo", "IPO_PREP", 80, 0.8, 10),
		hyp("cost", "COST_PRESSURE", 0, 0.7, 20),
	}
	outcomes := []outdom.Outcome{outcome(1, "LAYOFF", 50)}

	results := matchOutcomes("run-1", day(60), 7, outcomes, hyps)
	if !results[0].Matched {
		t.Fatal("layoff should match the cost pressure hypothesis")
	}
	if results[0].IntentType != "COST_PRESSURE" {
		t.Fatalf("matched intent %q, want COST_PRESSURE", results[0].IntentType)
	}
}

func TestMatchOutcomes_MissRecorded(t *testing.T) {
	outcomes := []outdom.Outcome{outcome(1, "FUNDING", 50)}

	results := matchOutcomes("run-1", day(60), 7, outcomes, nil)
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1 (misses get rows too)", len(results))
	}
	r := results[0]
	if r.Matched || r.HypothesisID != "" || r.LagDays != nil {
		t.Fatalf("miss row carries match data: %+v", r)
	}
}

func TestBuildReport(t *testing.T) {
	lag10, lag20 := 10.0, 20.0
	results := []domain.Result{
		{OutcomeType: "IPO", Matched: true, LagDays: &lag10},
		{OutcomeType: "IPO", Matched: true, LagDays: &lag20},
		{OutcomeType: "IPO"},
		{OutcomeType: "LAYOFF"},
	}

	svc := &Service{}
	rows := svc.BuildReport(results)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	ipo := rows[0]
	if ipo.OutcomeType != "IPO" {
		t.Fatalf("rows not sorted by outcome type: %+v", rows)
	}
	if ipo.Outcomes != 3 || ipo.Matched != 2 {
		t.Fatalf("ipo row = %+v", ipo)
	}
	if ipo.MatchRate < 0.66 || ipo.MatchRate > 0.67 {
		t.Fatalf("match rate = %v, want 2/3", ipo.MatchRate)
	}
	if ipo.AvgLagDays == nil || *ipo.AvgLagDays != 15 {
		t.Fatalf("avg lag = %v, want 15", ipo.AvgLagDays)
	}

	layoff := rows[1]
	if layoff.Matched != 0 || layoff.AvgLagDays != nil || layoff.MatchRate != 0 {
		t.Fatalf("layoff row = %+v", layoff)
	}
}

func TestBuildReport_Empty(t *testing.T) {
	svc := &Service{}
	if rows := svc.BuildReport(nil); len(rows) != 0 {
		t.Fatalf("rows = %v, want none", rows)
	}
}
