// Package service provides the translator service implementation
package service

import (
	"context"
	"fmt"
	"sort"

	"intentcast/internal/core/scorer"
	intdom "intentcast/internal/services/intents/domain"
	"intentcast/internal/services/translator/domain"
)

// Service implements domain.TranslatePort
type Service struct {
	intents intdom.QueryPort
}

// New constructs a new translator service
func New(intents intdom.QueryPort) *Service {
	return &Service{intents: intents}
}

// Digest implements domain.TranslatePort
func (s *Service) Digest(ctx context.Context, companyID int64) (domain.Digest, error) {
	hyps, err := s.intents.ListByCompany(ctx, companyID)
	if err != nil {
		return domain.Digest{}, err
	}
	return build(hyps), nil
}

func build(hyps []intdom.Hypothesis) domain.Digest {
	risk := riskLevel(hyps)
	return domain.Digest{
		InvestorSummary:  investorSummary(hyps),
		JobseekerSummary: fmt.Sprintf("Stability risk: %s.", risk),
		Risk:             risk,
	}
}

// investorSummary keeps one line per intent type, headed by the most
// confident hypothesis of that type
func investorSummary(hyps []intdom.Hypothesis) []string {
	if len(hyps) == 0 {
		return []string{"No recent intent hypotheses."}
	}

	best := map[string]intdom.Hypothesis{}
	for _, h := range hyps {
		if cur, ok := best[h.IntentType]; !ok || h.Confidence > cur.Confidence {
			best[h.IntentType] = h
		}
	}

	types := make([]string, 0, len(best))
	for t := range best {
		types = append(types, t)
	}
	sort.Strings(types)

	lines := make([]string, 0, len(types))
	for _, t := range types {
		h := best[t]
		lines = append(lines, fmt.Sprintf("%s (%.2f): %s", t, h.Confidence, h.Explanation.Summary))
	}
	return lines
}

// riskLevel scores cost cutting and product sunsets at 2, offering prep at 1
func riskLevel(hyps []intdom.Hypothesis) string {
	score := 0
	for _, h := range hyps {
		switch h.IntentType {
		case scorer.IntentCostPressure, scorer.IntentSunsetting:
			score += 2
		case scorer.IntentIPOPrep:
			score++
		}
	}
	switch {
	case score >= 3:
		return domain.RiskHigh
	case score == 2:
		return domain.RiskMedium
	}
	return domain.RiskLow
}
