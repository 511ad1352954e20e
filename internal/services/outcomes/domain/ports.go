package domain

import (
	"context"
	"time"
)

// QueryPort reads outcomes for backtesting
type QueryPort interface {
	ListByCompany(ctx context.Context, companyID int64, since *time.Time) ([]Outcome, error)
}

// SeedPort records externally verified outcomes
type SeedPort interface {
	Insert(ctx context.Context, xs []Outcome) (int, error)
}
