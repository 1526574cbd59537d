// Package repo reads affiliate reference data
package repo

import (
	"context"

	"purchaseinbox/internal/modkit/repokit"
	"purchaseinbox/internal/platform/store"
	"purchaseinbox/internal/services/affiliate/domain"
)

// Repo is the affiliate persistence surface
type Repo interface {
	ListActive(ctx context.Context) ([]domain.Config, error)
}

type (
	// PG is a Postgres implementation of the affiliate repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) ListActive(ctx context.Context) ([]domain.Config, error) {
	return store.Many(ctx, r.q, func(row store.Row) (domain.Config, error) {
		var c domain.Config
		var strategy string
		err := row.Scan(&c.DomainPattern, &c.Network, &c.AffiliateID, &strategy, &c.ParamName, &c.WrapTemplate, &c.Priority)
		c.Strategy = domain.Strategy(strategy)
		return c, err
	}, `
SELECT domain_pattern, network, affiliate_id, strategy, param_name, wrap_template, priority
  FROM affiliate_configs
 WHERE active
 ORDER BY priority DESC, id`)
}
