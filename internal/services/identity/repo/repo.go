// Package repo provides the identity matcher statement
package repo

import (
	"context"

	"purchaseinbox/internal/modkit/repokit"
)

// Repo is the matcher persistence surface
type Repo interface {
	// Match claims every unmatched order for email and reports rows changed
	Match(ctx context.Context, userID, email string) (int64, error)
}

type (
	// PG is a Postgres implementation of the identity repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// the matched=false predicate makes this a compare and set: a concurrent
// caller for the same email sees zero rows once the first commits
const matchSQL = `
UPDATE staging_orders
   SET user_id = $1::uuid, matched = true
 WHERE customer_email = $2
   AND matched = false`

func (r *queries) Match(ctx context.Context, userID, email string) (int64, error) {
	tag, err := r.q.Exec(ctx, matchSQL, userID, email)
	if err != nil {
		return 0, err
	}
	if tag == nil {
		return 0, nil
	}
	return tag.RowsAffected(), nil
}
