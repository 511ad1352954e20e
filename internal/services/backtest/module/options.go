package module

import "intentcast/internal/platform/config"

// Options holds configuration settings for the backtest module
type Options struct {
	DefaultK          int
	DefaultWindowDays int
	DefaultThreshold  float64
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	bt := cfg.Prefix("CORE_BACKTEST_")
	return Options{
		DefaultK:          bt.MayInt("K", 5),
		DefaultWindowDays: bt.MayInt("WINDOW_DAYS", 365),
		DefaultThreshold:  bt.MayFloat64("READINESS_THRESHOLD", 70),
	}
}
