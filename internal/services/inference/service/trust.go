package service

import "fmt"

// Trust gate reason texts. These surface verbatim in alerts and audits,
// so changes here are user-facing
const (
	reasonBelowFloor      = "Readiness below %d threshold."
	reasonPersistedMulti  = "Readiness persisted and confirmed across sources."
	reasonPersistedOnly   = "Readiness persisted across periods."
	reasonMultiSourceOnly = "Readiness confirmed across multiple sources."
	reasonNeither         = "Readiness high but not persistent or multi-source yet."
)

// trustDecision is the outcome of gating one hypothesis
type trustDecision struct {
	Eligible    bool
	Reason      string
	Persisted   bool
	MultiSource bool
	SourceCount int
}

// decideTrust gates a high-readiness hypothesis on temporal persistence or
// cross-source corroboration. A single hot signal is never enough
func decideTrust(readiness float64, minReadiness int, persisted, multiSource bool, sourceCount int) trustDecision {
	if readiness < float64(minReadiness) {
		return trustDecision{
			Reason:      fmt.Sprintf(reasonBelowFloor, minReadiness),
			SourceCount: sourceCount,
		}
	}

	d := trustDecision{
		Persisted:   persisted,
		MultiSource: multiSource,
		SourceCount: sourceCount,
		Eligible:    persisted || multiSource,
	}
	switch {
	case persisted && multiSource:
		d.Reason = reasonPersistedMulti
	case persisted:
		d.Reason = reasonPersistedOnly
	case multiSource:
		d.Reason = reasonMultiSourceOnly
	default:
		d.Reason = reasonNeither
	}
	return d
}
