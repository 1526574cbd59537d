package module

import (
	"purchaseinbox/internal/adapters/commerce"
	"purchaseinbox/internal/platform/config"
)

// Options controls webhook ingestion
type Options struct {
	MaxBody int64
	Secrets map[commerce.Source]string
}

// FromConfig reads INGEST_* values from process config/env
// the secrets apply only to connections stored without one
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("INGEST_")
	secrets := map[commerce.Source]string{}
	if s := c.MayString("SHOPIFY_SECRET", ""); s != "" {
		secrets[commerce.SourceShopify] = s
	}
	if s := c.MayString("WOOCOMMERCE_SECRET", ""); s != "" {
		secrets[commerce.SourceWooCommerce] = s
	}
	return Options{
		MaxBody: int64(c.MayInt("MAX_BODY", 1<<20)),
		Secrets: secrets,
	}
}
