// Package domain defines the types and interfaces for the translator service
package domain

// Risk levels for the jobseeker view
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Digest renders a company's current hypotheses for two audiences:
// investors get the per-type headline lines, jobseekers a stability risk
type Digest struct {
	InvestorSummary  []string `json:"investor_summary"`
	JobseekerSummary string   `json:"jobseeker_summary"`
	Risk             string   `json:"risk"`
}
