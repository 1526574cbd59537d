package module

import (
	"time"

	"purchaseinbox/internal/platform/config"
)

// Options controls affiliate config loading
type Options struct {
	SeedFile string
	CacheTTL time.Duration
}

// FromConfig reads AFFILIATE_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("AFFILIATE_")
	return Options{
		SeedFile: c.MayString("SEED_FILE", ""),
		CacheTTL: c.MayDuration("CACHE_TTL", time.Minute),
	}
}
