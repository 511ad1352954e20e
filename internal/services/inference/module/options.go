package module

import "intentcast/internal/platform/config"

// Options holds configuration settings for the inference module
type Options struct {
	BaselineWindowDays int
	PersistWindowDays  int
	SourceWindowDays   int
	TrustReadinessMin  int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	inf := cfg.Prefix("CORE_INFER_")
	return Options{
		BaselineWindowDays: inf.MayInt("BASELINE_WINDOW_DAYS", 90),
		PersistWindowDays:  inf.MayInt("PERSIST_WINDOW_DAYS", 60),
		SourceWindowDays:   inf.MayInt("SOURCE_WINDOW_DAYS", 30),
		TrustReadinessMin:  inf.MayInt("TRUST_READINESS_MIN", 70),
	}
}
