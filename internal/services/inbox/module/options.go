package module

import (
	"time"

	"purchaseinbox/internal/platform/config"
	ihttp "purchaseinbox/internal/services/inbox/http"
)

// FromConfig reads INBOX_* values from process config/env
func FromConfig(cfg config.Conf) ihttp.StreamOptions {
	c := cfg.Prefix("INBOX_")
	return ihttp.StreamOptions{
		Heartbeat:   c.MayDuration("STREAM_HEARTBEAT", 15*time.Second),
		MaxDuration: c.MayDuration("STREAM_MAX", 25*time.Second),
		Retry:       c.MayDuration("STREAM_RETRY", 2*time.Second),
	}
}
