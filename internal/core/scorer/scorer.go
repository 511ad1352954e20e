// Package scorer turns a single normalized signal into intent hypothesis
// candidates. The IPO family combines catalog rule hits with drift evidence
// through a logistic readiness score; the remaining families are simple
// keyword and role heuristics with fixed confidence ceilings
package scorer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"intentcast/internal/core/drift"
	"intentcast/internal/core/lexicon"
	"intentcast/internal/core/rulecat"
)

// Intent types emitted by the engine
const (
	IntentIPOPrep            = "IPO_PREP"
	IntentSecurityCompliance = "SECURITY_COMPLIANCE_RAMP"
	IntentPlatformPivot      = "PLATFORM_PIVOT"
	IntentCostPressure       = "COST_PRESSURE"
	IntentSunsetting         = "SUNSETTING_PRODUCTS"
	IntentProductExpansion   = "PRODUCT_EXPANSION"
)

// IPO emission and scoring constants
const (
	// readinessEmitFloor is the readiness below which a hit-less signal
	// stays silent
	readinessEmitFloor = 55.0

	driftWeight     = 0.6
	roleDeltaWeight = 0.4

	// hit context radius in bytes around the matched pattern
	contextRadius = 120

	// evidence snippet length in bytes of raw text
	snippetLen = 200
)

// Input is one signal prepared for scoring
type Input struct {
	CompanyID      int64
	SignalID       int64
	Source         string
	EventAt        time.Time
	RawText        string
	NormText       string
	RoleBucket     string
	EmploymentType string
	Drift          drift.Descriptor
}

// RuleHit records one catalog rule firing on a signal
type RuleHit struct {
	Rule    string  `json:"rule"`
	Weight  float64 `json:"weight"`
	Matched string  `json:"matched"`
	Context string  `json:"context"`
}

// Candidate is a scored hypothesis before trust gating and persistence.
// Readiness is only meaningful for the IPO family; other families leave it 0
type Candidate struct {
	IntentType string
	Confidence float64
	Readiness  float64
	RuleHits   []RuleHit
	Triggers   []string
	Drift      drift.Descriptor
	Summary    string
	SignalID   int64
	Snippet    string
	CreatedAt  time.Time
}

// RuleScorer is the primary scorer backed by the embedded catalog
type RuleScorer struct {
	catalog *rulecat.Catalog
}

// New builds a RuleScorer over a loaded catalog
func New(catalog *rulecat.Catalog) *RuleScorer {
	return &RuleScorer{catalog: catalog}
}

// Name identifies the scorer in fused output and logs
func (s *RuleScorer) Name() string { return "rule" }

// Score evaluates every family against one signal
func (s *RuleScorer) Score(in Input) []Candidate {
	var out []Candidate
	if c, ok := s.scoreIPO(in); ok {
		out = append(out, c)
	}
	scores := lexicon.CategoryScores(in.NormText)
	out = append(out, scoreFamilies(in, scores)...)
	return out
}

// scoreIPO combines catalog hits with drift evidence. A signal emits when
// readiness clears the floor or at least one rule fired; a quiet signal
// with mild drift emits nothing
func (s *RuleScorer) scoreIPO(in Input) (Candidate, bool) {
	hits := s.matchRules(in)

	combined := 0.0
	for _, h := range hits {
		combined += h.Weight
	}
	combined += driftWeight*in.Drift.Score + roleDeltaWeight*in.Drift.MaxRoleDelta()

	readiness := round2(100 * logistic(combined))
	if readiness < readinessEmitFloor && len(hits) == 0 {
		return Candidate{}, false
	}

	conf := readiness / 100
	if len(hits) > 0 {
		conf = math.Min(1.0, conf+0.1)
	} else {
		conf = math.Min(conf, 0.6)
	}
	if in.Drift.Score < 0.2 {
		conf = math.Min(conf, 0.5)
	}

	triggers := make([]string, 0, len(hits))
	for _, h := range hits {
		triggers = append(triggers, h.Matched)
	}

	return Candidate{
		IntentType: IntentIPOPrep,
		Confidence: round2(conf),
		Readiness:  readiness,
		RuleHits:   hits,
		Triggers:   triggers,
		Drift:      in.Drift,
		Summary:    ipoSummary(hits, in.Drift),
		SignalID:   in.SignalID,
		Snippet:    snippet(in.RawText),
		CreatedAt:  in.EventAt,
	}, true
}

// matchRules walks the catalog in order; within a rule the first pattern
// that matches wins and later patterns are not tried
func (s *RuleScorer) matchRules(in Input) []RuleHit {
	var hits []RuleHit
	for _, r := range s.catalog.Rules() {
		if !r.AppliesToSource(in.Source) {
			continue
		}
		for _, p := range r.Patterns {
			idx := strings.Index(in.NormText, p)
			if idx < 0 {
				continue
			}
			hits = append(hits, RuleHit{
				Rule:    r.Name,
				Weight:  r.Weight,
				Matched: p,
				Context: contextAround(in.NormText, idx, len(p)),
			})
			break
		}
	}
	return hits
}

func ipoSummary(hits []RuleHit, d drift.Descriptor) string {
	names := make([]string, 0, len(hits))
	for _, h := range hits {
		names = append(names, h.Rule)
	}
	switch {
	case len(names) > 0 && d.Score >= 0.2:
		return fmt.Sprintf("Public-markets readiness signals (%s) with elevated language drift %.2f.",
			strings.Join(names, ", "), d.Score)
	case len(names) > 0:
		return fmt.Sprintf("Public-markets readiness signals: %s.", strings.Join(names, ", "))
	default:
		return fmt.Sprintf("Elevated language drift %.2f without direct readiness keywords.", d.Score)
	}
}

// scoreFamilies evaluates the heuristic families against one signal
func scoreFamilies(in Input, scores map[string]int) []Candidate {
	var out []Candidate
	emit := func(intent string, conf float64, summary string, triggers []string) {
		out = append(out, Candidate{
			IntentType: intent,
			Confidence: round2(conf),
			Triggers:   triggers,
			Summary:    summary,
			SignalID:   in.SignalID,
			Snippet:    snippet(in.RawText),
			CreatedAt:  in.EventAt,
		})
	}

	if hits := scores[lexicon.CategorySecurity] + scores[lexicon.CategoryCompliance]; hits >= 2 {
		emit(IntentSecurityCompliance,
			math.Min(0.8, 0.55+0.05*float64(hits)),
			fmt.Sprintf("Security and compliance hiring ramp (%d keyword hits).", hits),
			lexicon.MatchedTerms(in.NormText, lexicon.CategorySecurity, lexicon.CategoryCompliance))
	}

	if (in.RoleBucket == lexicon.RoleInfra || in.RoleBucket == lexicon.RoleML) &&
		scores[lexicon.CategoryPlatform] > 0 &&
		!strings.Contains(in.NormText, "product") {
		conf := 0.60
		if in.RoleBucket == lexicon.RoleML {
			conf = 0.65
		}
		emit(IntentPlatformPivot, conf,
			fmt.Sprintf("Platform-focused %s hiring without product language.", in.RoleBucket),
			lexicon.MatchedTerms(in.NormText, lexicon.CategoryPlatform))
	}

	costHits := scores[lexicon.CategoryOptimize]
	contract := strings.Contains(strings.ToLower(in.EmploymentType), "contract")
	if costHits > 0 || contract {
		triggers := lexicon.MatchedTerms(in.NormText, lexicon.CategoryOptimize)
		if contract {
			triggers = append(triggers, "contract")
		}
		emit(IntentCostPressure,
			math.Min(0.75, 0.55+0.05*float64(costHits)),
			fmt.Sprintf("Cost and efficiency language (%d hits) or contract staffing.", costHits),
			triggers)
	}

	if scores[lexicon.CategorySunset] > 0 {
		emit(IntentSunsetting, 0.7, "Sunset or deprecation language in signal text.",
			lexicon.MatchedTerms(in.NormText, lexicon.CategorySunset))
	}

	if in.RoleBucket == lexicon.RoleProduct &&
		(scores[lexicon.CategoryScale] > 0 || scores[lexicon.CategoryProduct] > 0) {
		emit(IntentProductExpansion, 0.6, "Product hiring with scale or expansion language.",
			lexicon.MatchedTerms(in.NormText, lexicon.CategoryScale, lexicon.CategoryProduct))
	}

	return out
}

// contextAround slices up to contextRadius bytes either side of a match,
// trimmed back to valid UTF-8
func contextAround(s string, idx, matchLen int) string {
	lo := idx - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := idx + matchLen + contextRadius
	if hi > len(s) {
		hi = len(s)
	}
	return strings.ToValidUTF8(s[lo:hi], "")
}

// snippet keeps the leading bytes of raw text as evidence
func snippet(raw string) string {
	if len(raw) <= snippetLen {
		return raw
	}
	return strings.ToValidUTF8(raw[:snippetLen], "")
}

func logistic(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
