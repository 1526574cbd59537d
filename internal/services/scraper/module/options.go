package module

import (
	"time"

	"purchaseinbox/internal/platform/config"
)

// Options controls scraper config loading
type Options struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	MaxBytes int64
}

// FromConfig reads SCRAPER_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("SCRAPER_")
	return Options{
		Timeout:  c.MayDuration("TIMEOUT", 10*time.Second),
		CacheTTL: c.MayDuration("CACHE_TTL", 6*time.Hour),
		MaxBytes: int64(c.MayInt("MAX_BYTES", 2<<20)),
	}
}
