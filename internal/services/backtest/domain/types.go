// Package domain defines the types and interfaces for the backtest service
package domain

import (
	"time"

	"intentcast/internal/core/scorer"
	outdom "intentcast/internal/services/outcomes/domain"
)

// OutcomeIntents maps each outcome type to the intent types that count as
// having predicted it
var OutcomeIntents = map[string][]string{
	outdom.OutcomeIPO:     {scorer.IntentIPOPrep},
	outdom.OutcomeLayoff:  {scorer.IntentCostPressure, scorer.IntentSunsetting},
	outdom.OutcomeFunding: {scorer.IntentProductExpansion, scorer.IntentPlatformPivot},
}

// IntentPredictsOutcome reports whether hypotheses of intentType count as
// predictions of outcomeType
func IntentPredictsOutcome(intentType, outcomeType string) bool {
	for _, it := range OutcomeIntents[outcomeType] {
		if it == intentType {
			return true
		}
	}
	return false
}

// Result pairs one outcome with the best matching prior hypothesis, or
// records the miss. Rows are append-only, one batch per run
type Result struct {
	RunID        string
	CompanyID    int64
	OutcomeID    int64
	OutcomeType  string
	OutcomeAt    time.Time
	HypothesisID string
	IntentType   string
	IntentAt     *time.Time
	LagDays      *float64
	Matched      bool
	RunAt        time.Time
}

// ReportRow aggregates one outcome type across a run
type ReportRow struct {
	OutcomeType string   `json:"outcome_type"`
	Outcomes    int      `json:"outcomes"`
	Matched     int      `json:"matched"`
	MatchRate   float64  `json:"match_rate"`
	AvgLagDays  *float64 `json:"avg_lag_days"`
}

// KPIParams selects the hypotheses and horizon a KPI computation covers
type KPIParams struct {
	IntentType         string
	K                  int
	WindowDays         int
	ReadinessThreshold float64
}

// KPIs are the headline backtest metrics for one intent type
type KPIs struct {
	PrecisionAtK        float64  `json:"precision_at_k"`
	K                   int      `json:"k"`
	EffectiveK          int      `json:"effective_k"`
	MedianLeadMonths    *float64 `json:"median_lead_time_months"`
	FalsePositives      int      `json:"false_positives"`
	CandidateHypotheses int      `json:"candidate_hypotheses"`
}
