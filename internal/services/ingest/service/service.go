// Package service authenticates webhook deliveries and stages their orders
package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"purchaseinbox/internal/adapters/commerce"
	"purchaseinbox/internal/core/signature"
	"purchaseinbox/internal/modkit/repokit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/logger"
	"purchaseinbox/internal/services/ingest/domain"
	"purchaseinbox/internal/services/ingest/repo"
	sdom "purchaseinbox/internal/services/staging/domain"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Options configures ingestion
// Secrets are per source fallbacks for connections stored without a webhook secret
type Options struct {
	Registry  *commerce.Registry
	Publisher domain.Publisher
	Secrets   map[commerce.Source]string
}

// Svc implements the webhook pipeline
type Svc struct {
	conns    repo.Repo
	staging  sdom.StorePort
	registry *commerce.Registry
	pub      domain.Publisher
	secrets  map[commerce.Source]string
	log      logger.Logger
}

// New constructs the service
func New(db repokit.TxRunner, conns repokit.Binder[repo.Repo], staging sdom.StorePort, opt Options) *Svc {
	if db == nil {
		panic("ingest.Service requires a non nil TxRunner")
	}
	if conns == nil {
		panic("ingest.Service requires a non nil Repo binder")
	}
	if staging == nil {
		panic("ingest.Service requires a staging store")
	}
	if opt.Registry == nil {
		opt.Registry = commerce.Default()
	}
	if opt.Secrets == nil {
		opt.Secrets = map[commerce.Source]string{}
	}
	return &Svc{
		conns:    conns.Bind(db),
		staging:  staging,
		registry: opt.Registry,
		pub:      opt.Publisher,
		secrets:  opt.Secrets,
		log:      *logger.Named("ingest"),
	}
}

// Ingest authenticates d, adapts its payload and stages every line item
// nothing is written unless authentication and adaptation both succeed
func (s *Svc) Ingest(ctx context.Context, d domain.Delivery) (domain.Result, error) {
	conn, err := s.authenticate(ctx, d)
	if err != nil {
		return domain.Result{}, err
	}

	ros, err := s.registry.Adapt(d.Source, d.Body, commerce.Meta{
		StoreDomain: firstNonEmpty(conn.ShopDomain, shopHost(d.ShopDomain)),
		StoreName:   conn.StoreName,
	})
	if err != nil {
		return domain.Result{}, err
	}

	results, err := s.staging.InsertAll(ctx, ros)
	if err != nil {
		return domain.Result{}, err
	}

	out := domain.Result{Success: true, Orders: make([]sdom.StagingOrder, 0, len(results))}
	owners := map[string]struct{}{}
	for _, res := range results {
		out.Orders = append(out.Orders, res.Order)
		if !res.Created {
			continue
		}
		out.Created++
		if uid := res.Order.Owner(); uid != "" {
			owners[uid] = struct{}{}
		}
	}

	log := logger.C(ctx)
	log.Info().
		Str("source", string(d.Source)).
		Str("connection", conn.ID).
		Int("items", len(out.Orders)).
		Int("created", out.Created).
		Msg("webhook ingested")

	if s.pub != nil {
		for uid := range owners {
			if err := s.pub.Publish(ctx, uid); err != nil {
				log.Warn().Err(err).Str("user_id", uid).Msg("inbox publish failed")
			}
		}
	}
	return out, nil
}

func (s *Svc) authenticate(ctx context.Context, d domain.Delivery) (domain.Connection, error) {
	switch d.Source {
	case commerce.SourceShopify:
		conn, err := s.byShop(ctx, d)
		if err != nil {
			return domain.Connection{}, err
		}
		return conn, s.verify(ctx, d, conn)

	case commerce.SourceWooCommerce:
		if key := strings.TrimSpace(d.APIKey); key != "" {
			conn, err := s.byKey(ctx, key)
			if err != nil {
				return domain.Connection{}, err
			}
			if conn.Source != commerce.SourceWooCommerce {
				return domain.Connection{}, perr.Unauthorizedf("api key is not valid for %s", d.Source)
			}
			if strings.TrimSpace(d.Signature) == "" {
				return conn, nil
			}
			return conn, s.verify(ctx, d, conn)
		}
		conn, err := s.byShop(ctx, d)
		if err != nil {
			return domain.Connection{}, err
		}
		return conn, s.verify(ctx, d, conn)

	case commerce.SourceGeneric:
		key := strings.TrimSpace(d.APIKey)
		if key == "" {
			key = commerce.APIKeyFromBody(d.Body)
		}
		if key == "" {
			return domain.Connection{}, perr.Unauthorizedf("missing api key")
		}
		conn, err := s.byKey(ctx, key)
		if err != nil {
			return domain.Connection{}, err
		}
		if conn.Source != commerce.SourceGeneric {
			return domain.Connection{}, perr.Unauthorizedf("api key is not valid for %s", d.Source)
		}
		return conn, nil
	}
	return domain.Connection{}, perr.Validationf("unsupported webhook source %q", d.Source)
}

func (s *Svc) byShop(ctx context.Context, d domain.Delivery) (domain.Connection, error) {
	shop := shopHost(d.ShopDomain)
	if shop == "" {
		return domain.Connection{}, perr.WithField(perr.Validationf("missing shop domain"), "shop_domain")
	}
	conn, err := s.conns.ByShopDomain(ctx, d.Source, shop)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return domain.Connection{}, perr.NotFoundf("shop %q is not registered", shop)
		}
		return domain.Connection{}, perr.FromPostgres(err, "ingest: lookup shop")
	}
	return conn, nil
}

func (s *Svc) byKey(ctx context.Context, key string) (domain.Connection, error) {
	conn, err := s.conns.ByAPIKey(ctx, key)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return domain.Connection{}, perr.Unauthorizedf("invalid api key")
		}
		return domain.Connection{}, perr.FromPostgres(err, "ingest: lookup api key")
	}
	return conn, nil
}

func (s *Svc) verify(ctx context.Context, d domain.Delivery, conn domain.Connection) error {
	secret := firstNonEmpty(conn.WebhookSecret, s.secrets[d.Source])
	if secret == "" {
		return perr.Unauthorizedf("no webhook secret configured for %s shop %q", d.Source, conn.ShopDomain)
	}
	err := signature.Check(d.Body, d.Signature, secret)
	if signature.Skipped(err) {
		logger.C(ctx).Warn().Str("source", string(d.Source)).Str("connection", conn.ID).Msg("unsigned webhook accepted")
		return nil
	}
	return err
}

// shopHost reduces "https://Shop.Example/" to "shop.example"
func shopHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil {
			raw = u.Host
		}
	}
	return strings.ToLower(strings.TrimSuffix(raw, "/"))
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
