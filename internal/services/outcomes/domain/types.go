// Package domain defines the types and interfaces for the outcomes service
package domain

import "time"

// Outcome types tracked for validation
const (
	OutcomeIPO     = "IPO"
	OutcomeLayoff  = "LAYOFF"
	OutcomeFunding = "FUNDING"
)

// Outcome is a verified real-world event for a company. Outcomes arrive
// from seeding or reporting flows and are read-only to the engine
type Outcome struct {
	ID         int64
	CompanyID  int64
	Type       string
	OccurredAt time.Time
	Details    string
}
