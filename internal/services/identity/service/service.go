// Package service binds staging orders to accounts after authentication
package service

import (
	"context"

	"purchaseinbox/internal/core/normalize"
	"purchaseinbox/internal/modkit/repokit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/logger"
	"purchaseinbox/internal/services/identity/domain"
	"purchaseinbox/internal/services/identity/repo"

	"github.com/google/uuid"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Options control service behavior
type Options struct {
	// Publisher is optional; when set a non zero match notifies the user's inbox
	Publisher domain.Publisher
}

// Svc implements the identity matcher
type Svc struct {
	Repo repo.Repo
	pub  domain.Publisher
	log  logger.Logger
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("identity.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("identity.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo: binder.Bind(db),
		pub:  opt.Publisher,
		log:  *logger.Named("identity"),
	}
}

// Match binds every unmatched order for email to userID and returns the count
// a schema without the matching columns degrades to zero
func (s *Svc) Match(ctx context.Context, userID, email string) (int, error) {
	email = normalize.Email(email)
	if email == "" {
		return 0, perr.WithField(perr.Validationf("email is required"), "email")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return 0, perr.WithField(perr.Validationf("user id must be a uuid"), "user_id")
	}

	n, err := s.Repo.Match(ctx, userID, email)
	if err != nil {
		if perr.IsSchemaDrift(err) {
			s.log.Warn().Err(err).Msg("staging_orders lacks matching columns, skipping match")
			return 0, nil
		}
		return 0, perr.FromPostgres(err, "identity: match")
	}
	if n > 0 && s.pub != nil {
		if err := s.pub.Publish(ctx, userID); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("inbox publish failed")
		}
	}
	return int(n), nil
}

// Sync runs Match for an authenticated request, failures are logged and report zero
func (s *Svc) Sync(ctx context.Context, userID, email string) domain.SyncResult {
	n, err := s.Match(ctx, userID, email)
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("user_id", userID).Msg("identity sync failed")
		return domain.SyncResult{}
	}
	if n > 0 {
		logger.C(ctx).Info().Int("matched", n).Str("user_id", userID).Msg("staging orders matched")
	}
	return domain.SyncResult{Matched: n}
}

// HandleLogin runs Match for an auth event, unverified addresses are skipped
func (s *Svc) HandleLogin(ctx context.Context, ev domain.LoginEvent) domain.SyncResult {
	if !ev.EmailVerified {
		s.log.Debug().Str("user_id", ev.UserID).Msg("email not verified, skipping match")
		return domain.SyncResult{}
	}
	return s.Sync(ctx, ev.UserID, ev.Email)
}
