// Package service runs the owner's review of staged orders
package service

import (
	"context"

	"purchaseinbox/internal/adapters/pubsub"
	"purchaseinbox/internal/modkit/repokit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/logger"
	"purchaseinbox/internal/services/inbox/domain"
	"purchaseinbox/internal/services/inbox/repo"
	sdom "purchaseinbox/internal/services/staging/domain"
	srepo "purchaseinbox/internal/services/staging/repo"
	ssvc "purchaseinbox/internal/services/staging/service"

	"github.com/google/uuid"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Options control service behavior
type Options struct {
	// Broker fans out change events, nil gets a process local broker
	Broker *pubsub.Broker
	// Rewriter is optional, products keep a nil affiliate_url without it
	Rewriter domain.Rewriter
}

// Svc implements the inbox service
type Svc struct {
	db       repokit.TxRunner
	staging  repokit.Binder[srepo.Repo]
	products repokit.Binder[repo.Repo]
	stage    *ssvc.Svc
	broker   *pubsub.Broker
	rewriter domain.Rewriter
	newID    func() (uuid.UUID, error)
	log      logger.Logger
}

// New constructs the service over the staging and products binders
func New(db repokit.TxRunner, staging repokit.Binder[srepo.Repo], products repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("inbox.Service requires a non nil TxRunner")
	}
	if staging == nil || products == nil {
		panic("inbox.Service requires non nil Repo binders")
	}
	b := opt.Broker
	if b == nil {
		b = pubsub.New(pubsub.Options{})
	}
	return &Svc{
		db:       db,
		staging:  staging,
		products: products,
		stage:    ssvc.New(db, staging),
		broker:   b,
		rewriter: opt.Rewriter,
		newID:    uuid.NewV7,
		log:      *logger.Named("inbox"),
	}
}

// ListPending returns the user's pending orders newest first
func (s *Svc) ListPending(ctx context.Context, userID string) ([]sdom.StagingOrder, error) {
	return s.stage.ListPending(ctx, userID)
}

// Accept resolves the order and creates its product in one transaction
// accepting a resolved order is a no-op success
func (s *Svc) Accept(ctx context.Context, userID, id string) (domain.Decision, error) {
	if userID == "" {
		return domain.Decision{}, perr.Unauthorizedf("missing user")
	}
	pid, err := s.newID()
	if err != nil {
		return domain.Decision{}, perr.Wrap(err, perr.ErrorCodeUnknown, "product id")
	}

	var d domain.Decision
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		o, changed, err := ssvc.Transition(ctx, s.staging.Bind(q), sdom.TransitionArgs{
			ID: id, Owner: userID, To: sdom.StatusAccepted,
		})
		if err != nil {
			return err
		}
		d = domain.Decision{Order: o, Changed: changed}
		if !changed {
			return nil
		}
		p := domain.Product{
			ID:             pid.String(),
			UserID:         userID,
			StagingOrderID: o.ID,
			Snapshot:       o.Product,
			AffiliateURL:   s.affiliate(ctx, o.Product.StoreURL),
		}
		d.ProductID, _, err = s.products.Bind(q).InsertProduct(ctx, p)
		if err != nil {
			return perr.FromPostgres(err, "inbox: insert product")
		}
		return nil
	})
	if err != nil {
		return domain.Decision{}, err
	}

	logger.C(ctx).Info().
		Str("staging_order_id", d.Order.ID).
		Bool("changed", d.Changed).
		Str("product_id", d.ProductID).
		Msg("order accepted")
	if d.Changed {
		s.publish(ctx, userID)
	}
	return d, nil
}

// Reject resolves the order without creating anything
func (s *Svc) Reject(ctx context.Context, userID, id string) (domain.Decision, error) {
	if userID == "" {
		return domain.Decision{}, perr.Unauthorizedf("missing user")
	}
	o, changed, err := s.stage.Transition(ctx, sdom.TransitionArgs{ID: id, Owner: userID, To: sdom.StatusRejected})
	if err != nil {
		return domain.Decision{}, err
	}
	if changed {
		s.publish(ctx, userID)
	}
	return domain.Decision{Order: o, Changed: changed}, nil
}

// Subscribe streams change events for userID
func (s *Svc) Subscribe(userID string) (<-chan pubsub.Changed, func()) {
	return s.broker.Subscribe(userID)
}

// Publish announces a change for userID, used by ingest and identity
func (s *Svc) Publish(ctx context.Context, userID string) error {
	return s.broker.Publish(ctx, userID)
}

func (s *Svc) publish(ctx context.Context, userID string) {
	if err := s.broker.Publish(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("inbox change not mirrored")
	}
}

func (s *Svc) affiliate(ctx context.Context, storeURL string) *string {
	if s.rewriter == nil || storeURL == "" {
		return nil
	}
	u, ok := s.rewriter.AffiliateURL(ctx, storeURL)
	if !ok {
		return nil
	}
	return &u
}
