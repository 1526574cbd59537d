// Package service implements the staging order store workflows
package service

import (
	"context"

	"purchaseinbox/internal/adapters/commerce"
	"purchaseinbox/internal/core/normalize"
	"purchaseinbox/internal/modkit/repokit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/logger"
	"purchaseinbox/internal/services/staging/domain"
	"purchaseinbox/internal/services/staging/repo"

	"github.com/google/uuid"
)

// Service is the public service port
type Service interface{ domain.StorePort }

// Svc implements the staging store
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	newID  func() (uuid.UUID, error)
	log    logger.Logger
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("staging.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("staging.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		newID:  uuid.NewV7,
		log:    *logger.Named("staging"),
	}
}

// Binder exposes the repo binder so other services can join a transaction
func (s *Svc) Binder() repokit.Binder[repo.Repo] { return s.binder }

// Insert stages a single adapted line item
func (s *Svc) Insert(ctx context.Context, ro commerce.RawOrder) (domain.StagingOrder, bool, error) {
	match, err := s.Repo.OwnerLookupAvailable(ctx)
	if err != nil {
		return domain.StagingOrder{}, false, perr.FromPostgres(err, "staging: look up users table")
	}
	return s.insert(ctx, s.Repo, ro, match)
}

// InsertAll stages every line item of one order in a single transaction
// any failure rolls the whole order back
func (s *Svc) InsertAll(ctx context.Context, ros []commerce.RawOrder) ([]domain.InsertResult, error) {
	if len(ros) == 0 {
		return nil, perr.Validationf("order has no line items")
	}
	match, err := s.Repo.OwnerLookupAvailable(ctx)
	if err != nil {
		return nil, perr.FromPostgres(err, "staging: look up users table")
	}
	if !match {
		s.log.Warn().Msg("users.email not found, insert time matching disabled")
	}

	out := make([]domain.InsertResult, 0, len(ros))
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		for _, ro := range ros {
			o, created, err := s.insert(ctx, r, ro, match)
			if err != nil {
				return err
			}
			out = append(out, domain.InsertResult{Order: o, Created: created})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Svc) insert(ctx context.Context, r repo.Repo, ro commerce.RawOrder, match bool) (domain.StagingOrder, bool, error) {
	if !ro.Source.Valid() {
		return domain.StagingOrder{}, false, perr.Validationf("unknown source %q", ro.Source)
	}
	email := normalize.Email(ro.CustomerEmail)
	if email == "" {
		return domain.StagingOrder{}, false, perr.WithField(perr.Validationf("customer email is required"), "customer_email")
	}
	if ro.SourceOrderID == "" || ro.Item.Name == "" {
		return domain.StagingOrder{}, false, perr.Validationf("source_order_id and item name are required")
	}
	id, err := s.newID()
	if err != nil {
		return domain.StagingOrder{}, false, perr.Wrap(err, perr.ErrorCodeUnknown, "staging: new id")
	}

	o, created, err := r.Insert(ctx, repo.InsertArgs{
		ID:            id.String(),
		CustomerEmail: email,
		Source:        ro.Source,
		SourceOrderID: ro.SourceOrderID,
		Product:       domain.SnapshotFrom(ro),
		RawPayload:    ro.Payload,
		MatchOwner:    match,
	})
	if err != nil {
		return domain.StagingOrder{}, false, perr.FromPostgresWithField(err, "staging: insert order")
	}
	if !created {
		s.log.Debug().Str("source", string(ro.Source)).Str("source_order_id", ro.SourceOrderID).Msg("duplicate delivery")
	}
	return o, created, nil
}

// ListPending returns the user's pending orders newest first
func (s *Svc) ListPending(ctx context.Context, userID string) ([]domain.StagingOrder, error) {
	if userID == "" {
		return nil, perr.Unauthorizedf("missing user")
	}
	out, err := s.Repo.ListPending(ctx, userID)
	if err != nil {
		return nil, perr.FromPostgres(err, "staging: list pending")
	}
	if out == nil {
		out = []domain.StagingOrder{}
	}
	return out, nil
}

// Transition resolves a pending order, a resolved one is returned with changed=false
func (s *Svc) Transition(ctx context.Context, in domain.TransitionArgs) (domain.StagingOrder, bool, error) {
	return Transition(ctx, s.Repo, in)
}

// Transition validates args and runs the compare and set on r
// exported so callers holding a transaction bound repo share the rules
func Transition(ctx context.Context, r repo.Repo, in domain.TransitionArgs) (domain.StagingOrder, bool, error) {
	if !in.To.Resolved() {
		return domain.StagingOrder{}, false, perr.Validationf("cannot transition to %q", in.To)
	}
	if _, err := uuid.Parse(in.ID); err != nil {
		return domain.StagingOrder{}, false, perr.NotFoundf("staging order %q not found", in.ID)
	}
	o, changed, err := r.Transition(ctx, in)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.StagingOrder{}, false, perr.NotFoundf("staging order %q not found", in.ID)
		}
		return domain.StagingOrder{}, false, perr.FromPostgres(err, "staging: transition")
	}
	return o, changed, nil
}

// ListUnmatched returns ownerless orders for an email
func (s *Svc) ListUnmatched(ctx context.Context, email string) ([]domain.StagingOrder, error) {
	email = normalize.Email(email)
	if email == "" {
		return nil, perr.Validationf("email is required")
	}
	out, err := s.Repo.ListUnmatched(ctx, email)
	if err != nil {
		return nil, perr.FromPostgres(err, "staging: list unmatched")
	}
	if out == nil {
		out = []domain.StagingOrder{}
	}
	return out, nil
}
