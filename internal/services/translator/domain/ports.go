package domain

import (
	"context"

	intdom "intentcast/internal/services/intents/domain"
)

// Ports bundles the cross-module dependencies the translator module needs.
// Callers pass it via modkit.WithPorts at construction time
type Ports struct {
	Intents intdom.QueryPort
}

// TranslatePort builds audience digests from persisted hypotheses
type TranslatePort interface {
	Digest(ctx context.Context, companyID int64) (Digest, error)
}
