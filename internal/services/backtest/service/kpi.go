package service

import (
	"math"
	"sort"
	"time"

	"intentcast/internal/services/backtest/domain"
	intdom "intentcast/internal/services/intents/domain"
	outdom "intentcast/internal/services/outcomes/domain"
)

// computeKPIs is the pure core of the KPI engine. The evaluation window is
// derived from the outcomes' own span when outcomes exist, otherwise it
// trails back WindowDays from now
func computeKPIs(
	hyps []intdom.Hypothesis,
	outcomes []outdom.Outcome,
	p domain.KPIParams,
	now time.Time,
) domain.KPIs {
	matching := matchingOutcomes(outcomes, p.IntentType)

	windowStart, windowEnd := kpiWindow(matching, p.WindowDays, now)

	var candidates []intdom.Hypothesis
	for _, h := range hyps {
		if h.IntentType != p.IntentType {
			continue
		}
		if h.CreatedAt.Before(windowStart) || h.CreatedAt.After(windowEnd) {
			continue
		}
		candidates = append(candidates, h)
	}

	kpis := domain.KPIs{K: p.K, CandidateHypotheses: len(candidates)}

	ranked := make([]intdom.Hypothesis, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankScore(ranked[i]) > rankScore(ranked[j])
	})

	horizon := time.Duration(p.WindowDays) * 24 * time.Hour
	matched := func(h intdom.Hypothesis) bool {
		for _, o := range matching {
			if !o.OccurredAt.Before(h.CreatedAt) && o.OccurredAt.Sub(h.CreatedAt) <= horizon {
				return true
			}
		}
		return false
	}

	effectiveK := p.K
	if len(ranked) < effectiveK {
		effectiveK = len(ranked)
	}
	kpis.EffectiveK = effectiveK
	if effectiveK > 0 {
		hits := 0
		for _, h := range ranked[:effectiveK] {
			if matched(h) {
				hits++
			}
		}
		kpis.PrecisionAtK = float64(hits) / float64(effectiveK)
	}

	for _, h := range candidates {
		if h.Readiness >= p.ReadinessThreshold && !matched(h) {
			kpis.FalsePositives++
		}
	}

	kpis.MedianLeadMonths = leadTimeMonths(candidates, matching, p.ReadinessThreshold)
	return kpis
}

// leadTimeMonths measures the earliest qualifying hypothesis against the
// earliest matching outcome at or after it, in months of 30 days
func leadTimeMonths(
	candidates []intdom.Hypothesis,
	matching []outdom.Outcome,
	threshold float64,
) *float64 {
	var first *intdom.Hypothesis
	for i := range candidates {
		h := &candidates[i]
		if h.Readiness < threshold {
			continue
		}
		if first == nil || h.CreatedAt.Before(first.CreatedAt) {
			first = h
		}
	}
	if first == nil {
		return nil
	}

	var firstOutcome *outdom.Outcome
	for i := range matching {
		o := &matching[i]
		if o.OccurredAt.Before(first.CreatedAt) {
			continue
		}
		if firstOutcome == nil || o.OccurredAt.Before(firstOutcome.OccurredAt) {
			firstOutcome = o
		}
	}
	if firstOutcome == nil {
		return nil
	}

	days := firstOutcome.OccurredAt.Sub(first.CreatedAt).Hours() / 24
	months := math.Round(days/30*100) / 100
	return &months
}

// kpiWindow derives [start, end] from the matching outcomes' span, padded
// back by windowDays so early predictions stay in scope
func kpiWindow(matching []outdom.Outcome, windowDays int, now time.Time) (time.Time, time.Time) {
	if len(matching) == 0 {
		return now.AddDate(0, 0, -windowDays), now
	}
	minAt, maxAt := matching[0].OccurredAt, matching[0].OccurredAt
	for _, o := range matching[1:] {
		if o.OccurredAt.Before(minAt) {
			minAt = o.OccurredAt
		}
		if o.OccurredAt.After(maxAt) {
			maxAt = o.OccurredAt
		}
	}
	return minAt.AddDate(0, 0, -windowDays), maxAt
}

// rankScore orders hypotheses for precision@K. Non-IPO families carry no
// readiness, so confidence scaled to the same range stands in
func rankScore(h intdom.Hypothesis) float64 {
	if h.Readiness > 0 {
		return h.Readiness
	}
	return h.Confidence * 100
}

func matchingOutcomes(outcomes []outdom.Outcome, intentType string) []outdom.Outcome {
	var out []outdom.Outcome
	for _, o := range outcomes {
		if domain.IntentPredictsOutcome(intentType, o.Type) {
			out = append(out, o)
		}
	}
	return out
}
