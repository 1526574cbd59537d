// Package repo provides the staging order repository
package repo

import (
	"context"
	"encoding/json"
	"errors"

	"purchaseinbox/internal/adapters/commerce"
	"purchaseinbox/internal/modkit/repokit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/store"
	"purchaseinbox/internal/services/staging/domain"
)

// InsertArgs is one row to stage
type InsertArgs struct {
	ID            string
	CustomerEmail string
	Source        commerce.Source
	SourceOrderID string
	Product       domain.Snapshot
	RawPayload    json.RawMessage
	// MatchOwner binds user_id from users by email in the same statement
	MatchOwner bool
}

// Repo is the staging persistence surface used by the service layer
type Repo interface {
	OwnerLookupAvailable(ctx context.Context) (bool, error)
	Insert(ctx context.Context, in InsertArgs) (domain.StagingOrder, bool, error)
	Get(ctx context.Context, id string) (domain.StagingOrder, error)
	GetOwned(ctx context.Context, id, owner string) (domain.StagingOrder, error)
	ListPending(ctx context.Context, userID string) ([]domain.StagingOrder, error)
	Transition(ctx context.Context, in domain.TransitionArgs) (domain.StagingOrder, bool, error)
	ListUnmatched(ctx context.Context, email string) ([]domain.StagingOrder, error)
}

type (
	// PG is a Postgres implementation of the staging repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// Columns is the select list scanOrder expects
const Columns = `id::text, user_id::text, customer_email, source, source_order_id,
	name, description, price::float8, original_price::float8, currency, quantity,
	store_name, store_url, images, category, brand,
	status, matched, created_at, processed_at`

// ScanOrder maps one row selected with Columns
func ScanOrder(r store.Row) (domain.StagingOrder, error) {
	var (
		o      domain.StagingOrder
		source string
		status string
	)
	err := r.Scan(
		&o.ID, &o.UserID, &o.CustomerEmail, &source, &o.SourceOrderID,
		&o.Product.Name, &o.Product.Description, &o.Product.Price, &o.Product.OriginalPrice,
		&o.Product.Currency, &o.Product.Quantity,
		&o.Product.StoreName, &o.Product.StoreURL, &o.Product.Images, &o.Product.Category, &o.Product.Brand,
		&status, &o.Matched, &o.CreatedAt, &o.ProcessedAt,
	)
	if err != nil {
		return domain.StagingOrder{}, err
	}
	o.Source = commerce.Source(source)
	o.Status = domain.Status(status)
	if o.Product.Images == nil {
		o.Product.Images = []string{}
	}
	return o, nil
}

// OwnerLookupAvailable reports whether users(email) exists for insert time matching
func (r *queries) OwnerLookupAvailable(ctx context.Context) (bool, error) {
	const sql = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			 WHERE table_schema = current_schema()
			   AND table_name = 'users'
			   AND column_name = 'email'
		)`
	return store.Scalar[bool](ctx, r.q, sql)
}

// Insert stages one line item
// a duplicate (source, source_order_id) returns the existing row with created=false
func (r *queries) Insert(ctx context.Context, in InsertArgs) (domain.StagingOrder, bool, error) {
	const withOwner = `
		WITH owner AS (
			SELECT u.id FROM users u WHERE lower(btrim(u.email)) = $2 ORDER BY u.created_at LIMIT 1
		)
		INSERT INTO staging_orders (
			id, user_id, matched, customer_email, source, source_order_id,
			name, description, price, original_price, currency, quantity,
			store_name, store_url, images, category, brand, raw_payload
		)
		SELECT $1::uuid, o.id, o.id IS NOT NULL, $2::text, $3::text, $4::text,
		       $5::text, $6::text, $7::numeric, $8::numeric, $9::text, $10::int,
		       $11::text, $12::text, $13::text[], $14::text, $15::text, $16::jsonb
		  FROM (SELECT 1) one
		  LEFT JOIN owner o ON TRUE
		ON CONFLICT (source, source_order_id) DO NOTHING
		RETURNING ` + Columns

	const withoutOwner = `
		INSERT INTO staging_orders (
			id, user_id, matched, customer_email, source, source_order_id,
			name, description, price, original_price, currency, quantity,
			store_name, store_url, images, category, brand, raw_payload
		) VALUES ($1, NULL, false, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (source, source_order_id) DO NOTHING
		RETURNING ` + Columns

	sql := withoutOwner
	if in.MatchOwner {
		sql = withOwner
	}
	p := in.Product
	images := p.Images
	if images == nil {
		images = []string{}
	}
	var payload any
	if len(in.RawPayload) > 0 {
		payload = in.RawPayload
	}

	o, err := store.One(ctx, r.q, ScanOrder, sql,
		in.ID, in.CustomerEmail, string(in.Source), in.SourceOrderID,
		p.Name, p.Description, p.Price, p.OriginalPrice, p.Currency, max(p.Quantity, 1),
		p.StoreName, p.StoreURL, images, p.Category, p.Brand, payload,
	)
	if err == nil {
		return o, true, nil
	}
	if !errors.Is(err, perr.ErrNotFound) {
		return domain.StagingOrder{}, false, err
	}

	// conflict: the row already exists
	existing, err := store.One(ctx, r.q, ScanOrder,
		`SELECT `+Columns+` FROM staging_orders WHERE source = $1 AND source_order_id = $2`,
		string(in.Source), in.SourceOrderID,
	)
	if err != nil {
		return domain.StagingOrder{}, false, err
	}
	return existing, false, nil
}

// Get loads one order by id
func (r *queries) Get(ctx context.Context, id string) (domain.StagingOrder, error) {
	return store.One(ctx, r.q, ScanOrder, `SELECT `+Columns+` FROM staging_orders WHERE id = $1`, id)
}

// GetOwned loads one order by id owned by owner
func (r *queries) GetOwned(ctx context.Context, id, owner string) (domain.StagingOrder, error) {
	return store.One(ctx, r.q, ScanOrder,
		`SELECT `+Columns+` FROM staging_orders WHERE id = $1 AND user_id = $2`, id, owner)
}

// ListPending returns the user's pending orders newest first
func (r *queries) ListPending(ctx context.Context, userID string) ([]domain.StagingOrder, error) {
	const sql = `SELECT ` + Columns + `
		  FROM staging_orders
		 WHERE user_id = $1 AND status = 'pending'
		 ORDER BY created_at DESC, id DESC`
	return store.Many(ctx, r.q, ScanOrder, sql, userID)
}

// Transition is a compare and set on status = 'pending'
// a resolved order is returned unchanged with changed=false
func (r *queries) Transition(ctx context.Context, in domain.TransitionArgs) (domain.StagingOrder, bool, error) {
	const owned = `
		UPDATE staging_orders
		   SET status = $2, processed_at = now()
		 WHERE id = $1 AND user_id = $3 AND status = 'pending'
		RETURNING ` + Columns
	const unowned = `
		UPDATE staging_orders
		   SET status = $2, processed_at = now()
		 WHERE id = $1 AND status = 'pending'
		RETURNING ` + Columns

	var (
		o   domain.StagingOrder
		err error
	)
	if in.Owner != "" {
		o, err = store.One(ctx, r.q, ScanOrder, owned, in.ID, string(in.To), in.Owner)
	} else {
		o, err = store.One(ctx, r.q, ScanOrder, unowned, in.ID, string(in.To))
	}
	if err == nil {
		return o, true, nil
	}
	if !errors.Is(err, perr.ErrNotFound) {
		return domain.StagingOrder{}, false, err
	}

	if in.Owner != "" {
		o, err = r.GetOwned(ctx, in.ID, in.Owner)
	} else {
		o, err = r.Get(ctx, in.ID)
	}
	if err != nil {
		return domain.StagingOrder{}, false, err
	}
	return o, false, nil
}

// ListUnmatched returns ownerless orders for an email
func (r *queries) ListUnmatched(ctx context.Context, email string) ([]domain.StagingOrder, error) {
	const sql = `SELECT ` + Columns + `
		  FROM staging_orders
		 WHERE customer_email = $1 AND matched = false
		 ORDER BY created_at DESC, id DESC`
	return store.Many(ctx, r.q, ScanOrder, sql, email)
}
