package module

import (
	"time"

	"purchaseinbox/internal/adapters/classifier"
	"purchaseinbox/internal/platform/config"
)

// Options controls moderation config loading
type Options struct {
	Text  classifier.Options
	Image classifier.Options
}

// FromConfig reads MODERATION_* values from process config/env
// a missing key leaves that classifier disabled
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("MODERATION_")
	return Options{
		Text: classifier.Options{
			APIKey:    c.MayString("TEXT_API_KEY", ""),
			BaseURL:   c.MayString("TEXT_API_URL", ""),
			Timeout:   c.MayDuration("TEXT_TIMEOUT", 5*time.Second),
			Threshold: c.MayFloat64("TEXT_THRESHOLD", 0.7),
		},
		Image: classifier.Options{
			APIKey:  c.MayString("VISION_API_KEY", ""),
			BaseURL: c.MayString("VISION_API_URL", ""),
			Timeout: c.MayDuration("VISION_TIMEOUT", 5*time.Second),
		},
	}
}
