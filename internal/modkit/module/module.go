// Package module defines the minimal contract for a modkit module
package module

// Module defines the minimal contract used by modkit.
// modules expose a name for logging/registry and a port bundle for cross wiring
type Module interface {
	Ports() any
	Name() string
}
