// Package repo materializes accepted orders as products
package repo

import (
	"context"
	"errors"

	"purchaseinbox/internal/modkit/repokit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/store"
	"purchaseinbox/internal/services/inbox/domain"
)

// Repo is the products surface used on accept
type Repo interface {
	// InsertProduct is idempotent on staging_order_id and returns the existing id on conflict
	InsertProduct(ctx context.Context, p domain.Product) (string, bool, error)
}

type (
	// PG is a Postgres implementation of the products repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func scanID(r store.Row) (string, error) {
	var id string
	return id, r.Scan(&id)
}

func (r *queries) InsertProduct(ctx context.Context, p domain.Product) (string, bool, error) {
	s := p.Snapshot
	id, err := store.One(ctx, r.q, scanID, `
		INSERT INTO products (
			id, user_id, staging_order_id, name, description, price, original_price, currency,
			store_name, store_url, images, category, brand, affiliate_url
		) VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (staging_order_id) DO NOTHING
		RETURNING id::text`,
		p.ID, p.UserID, p.StagingOrderID, s.Name, s.Description, s.Price, s.OriginalPrice, s.Currency,
		s.StoreName, s.StoreURL, s.Images, s.Category, s.Brand, p.AffiliateURL,
	)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, perr.ErrNotFound) {
		return "", false, err
	}
	id, err = store.One(ctx, r.q, scanID,
		`SELECT id::text FROM products WHERE staging_order_id = $1::uuid`, p.StagingOrderID)
	return id, false, err
}
