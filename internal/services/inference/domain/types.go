// Package domain defines the types and interfaces for the inference service
package domain

import (
	"context"
	"time"
)

// Result summarizes one inference pass over a company
type Result struct {
	Signals    int
	Candidates int
	Inserted   int
	Skipped    int
}

// RunnerPort drives inference for one company. A nil since processes every
// signal not yet used as evidence
type RunnerPort interface {
	InferCompany(ctx context.Context, companyID int64, since *time.Time) (Result, error)
}
