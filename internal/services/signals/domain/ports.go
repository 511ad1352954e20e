package domain

import (
	"context"
	"time"
)

// IngestPort normalizes, fingerprints, and writes signals
type IngestPort interface {
	Ingest(ctx context.Context, xs []SignalWrite) (inserted int, err error)
}

// QueryPort reads signals for inference and trust evaluation
type QueryPort interface {
	ListByCompany(ctx context.Context, companyID int64, since *time.Time) ([]Signal, error)
	DistinctSources(ctx context.Context, companyID int64, since, until time.Time) (int, error)
	ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error)
}
