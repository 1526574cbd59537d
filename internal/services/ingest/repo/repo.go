// Package repo reads merchant connections
package repo

import (
	"context"
	"strings"

	"purchaseinbox/internal/adapters/commerce"
	"purchaseinbox/internal/modkit/repokit"
	"purchaseinbox/internal/platform/store"
	"purchaseinbox/internal/services/ingest/domain"
)

// Repo is the merchant connection lookup surface
// both lookups return perr.ErrNotFound for unknown or inactive rows
type Repo interface {
	ByShopDomain(ctx context.Context, src commerce.Source, shop string) (domain.Connection, error)
	ByAPIKey(ctx context.Context, key string) (domain.Connection, error)
}

type (
	// PG is a Postgres implementation of the connection repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const selectConnection = `
SELECT id::text, source, shop_domain, webhook_secret, COALESCE(api_key, ''),
       COALESCE(merchant_user_id::text, ''), store_name, active
  FROM merchant_connections`

func scanConnection(row store.Row) (domain.Connection, error) {
	var c domain.Connection
	var src string
	err := row.Scan(&c.ID, &src, &c.ShopDomain, &c.WebhookSecret, &c.APIKey, &c.MerchantUserID, &c.StoreName, &c.Active)
	c.Source = commerce.Source(src)
	return c, err
}

func (r *queries) ByShopDomain(ctx context.Context, src commerce.Source, shop string) (domain.Connection, error) {
	return store.One(ctx, r.q, scanConnection, selectConnection+`
 WHERE source = $1 AND lower(shop_domain) = $2 AND active
 LIMIT 1`, string(src), strings.ToLower(shop))
}

func (r *queries) ByAPIKey(ctx context.Context, key string) (domain.Connection, error) {
	return store.One(ctx, r.q, scanConnection, selectConnection+`
 WHERE api_key = $1 AND active
 LIMIT 1`, key)
}
