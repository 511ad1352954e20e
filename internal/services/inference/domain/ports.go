package domain

import (
	intdom "intentcast/internal/services/intents/domain"
	sigdom "intentcast/internal/services/signals/domain"
)

// Ports bundles the cross-module dependencies the inference module needs.
// Callers pass it via modkit.WithPorts at construction time
type Ports struct {
	Signals sigdom.QueryPort
	Writer  intdom.WriterPort
	Intents intdom.QueryPort
}
