// Package domain defines the types and interfaces for the signals service
package domain

import "time"

// Source kinds for ingested signals
const (
	SourceJobPosting = "job_posting"
	SourceNews       = "news"
	SourceFiling     = "filing"
)

// Fields carries the optional structured attributes of a signal, stored as jsonb
type Fields struct {
	Title          string `json:"title,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`
	Location       string `json:"location,omitempty"`
	URL            string `json:"url,omitempty"`
}

// SignalWrite is a signal prepared for ingestion. NormText and Fingerprint
// are filled by the service, never by callers
type SignalWrite struct {
	CompanyID   int64
	Source      string
	EventAt     time.Time
	RawText     string
	NormText    string
	Fields      Fields
	Fingerprint string
}

// Signal is one persisted textual event about a company
type Signal struct {
	ID          int64
	CompanyID   int64
	Source      string
	EventAt     time.Time
	RawText     string
	NormText    string
	Fields      Fields
	Fingerprint string
	IngestedAt  time.Time
}
