// Package domain defines the types and interfaces for the intents service
package domain

import (
	"time"

	"intentcast/internal/core/drift"
	"intentcast/internal/core/scorer"
)

// Evidence ties a hypothesis back to one originating signal
type Evidence struct {
	SignalID int64     `json:"signal_id"`
	Source   string    `json:"source"`
	Snippet  string    `json:"snippet"`
	Triggers []string  `json:"triggers,omitempty"`
	EventAt  time.Time `json:"event_at"`
}

// TrustEntry is one append-only record of a trust gate decision
type TrustEntry struct {
	DecidedAt         time.Time `json:"decided_at"`
	Eligible          bool      `json:"eligible"`
	Reason            string    `json:"reason"`
	Persisted         bool      `json:"persisted"`
	MultiSource       bool      `json:"multi_source"`
	SourceCount       int       `json:"source_count"`
	PersistWindowDays int       `json:"persist_window_days"`
	SourceWindowDays  int       `json:"source_window_days"`
}

// Explanation is the structured why behind a hypothesis. TrustTrail is
// cumulative; entries are appended and never rewritten
type Explanation struct {
	Summary    string            `json:"summary"`
	RuleHits   []scorer.RuleHit  `json:"rule_hits,omitempty"`
	Drift      *drift.Descriptor `json:"drift,omitempty"`
	TrustTrail []TrustEntry      `json:"trust_trail,omitempty"`
}

// Hypothesis is one scored inference of company intent. AlertReason holds
// the latest trust gate reason; the full decision history lives in the
// explanation's trust trail
type Hypothesis struct {
	ID            string
	CompanyID     int64
	IntentType    string
	Confidence    float64
	Readiness     float64
	AlertEligible bool
	AlertReason   string
	Evidence      []Evidence
	Explanation   Explanation
	CreatedAt     time.Time
}

// Pair identifies a hypothesis for deduplication: one intent type anchored
// on its first evidence signal
type Pair struct {
	IntentType string
	SignalID   int64
}

// DedupeKey returns the hypothesis's pair, false when it has no evidence
func (h Hypothesis) DedupeKey() (Pair, bool) {
	if len(h.Evidence) == 0 {
		return Pair{}, false
	}
	return Pair{IntentType: h.IntentType, SignalID: h.Evidence[0].SignalID}, true
}
