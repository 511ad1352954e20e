package domain

import (
	"context"
	"time"
)

// WriterPort persists hypotheses
type WriterPort interface {
	InsertBatch(ctx context.Context, xs []Hypothesis) (int, error)
}

// QueryPort reads hypotheses for gating, dedupe, backtests, and summaries
type QueryPort interface {
	ListByCompany(ctx context.Context, companyID int64) ([]Hypothesis, error)
	ListByType(ctx context.Context, companyID int64, intentType string, since, until time.Time) ([]Hypothesis, error)
	ExistingPairs(ctx context.Context, companyID int64) (map[Pair]struct{}, error)
	UsedSignalIDs(ctx context.Context, companyID int64) (map[int64]struct{}, error)
}
