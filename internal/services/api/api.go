// Package api provides the HTTP API for the application
package api

import (
	"net/http"
	"time"

	"purchaseinbox/internal/adapters/pubsub"
	"purchaseinbox/internal/platform/config"
	"purchaseinbox/internal/platform/logger"
	phttp "purchaseinbox/internal/platform/net/http"
	"purchaseinbox/internal/platform/net/middleware"
	"purchaseinbox/internal/platform/store"

	"purchaseinbox/internal/modkit"
	"purchaseinbox/internal/modkit/httpkit"
	"purchaseinbox/internal/modkit/module"
	"purchaseinbox/internal/modkit/repokit"
	"purchaseinbox/internal/modkit/swaggerkit"

	affiliatemod "purchaseinbox/internal/services/affiliate/module"
	metamod "purchaseinbox/internal/services/api/meta/module"
	identitymod "purchaseinbox/internal/services/identity/module"
	inboxmod "purchaseinbox/internal/services/inbox/module"
	ingestmod "purchaseinbox/internal/services/ingest/module"
	moderationmod "purchaseinbox/internal/services/moderation/module"
	scrapermod "purchaseinbox/internal/services/scraper/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Broker fans inbox changes out to stream subscribers
	// nil builds one over the store bus, the caller then owns Start
	Broker *pubsub.Broker
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	root := opt.Config
	apiCfg := root.Prefix("CORE_API_")

	// every module transaction is bounded
	var pg store.TxRunner
	if opt.Store.PG != nil {
		timeout := root.Prefix("SERVICE_PGSQL_").MayDuration("STATEMENT_TIMEOUT", 5*time.Second)
		pg = repokit.WithBeginHooks(opt.Store.PG, repokit.StatementTimeout(timeout))
	}

	// shared deps for modules
	deps := modkit.Deps{
		Cfg:  root,
		PG:   pg,
		CH:   opt.Store.CH,
		Bus:  opt.Store.Bus,
		KV:   opt.Store.KV,
		Auth: httpkit.NewPortFunc(httpkit.HS256([]byte(apiCfg.MustString("JWT_SECRET")))),
	}

	broker := opt.Broker
	if broker == nil {
		broker = pubsub.New(pubsub.Options{Bus: deps.Bus})
	}

	// per ip budgets for the unauthenticated surfaces
	limit := func(prefix string, rps float64, burst int) func(http.Handler) http.Handler {
		c := apiCfg.Prefix(prefix)
		l := middleware.NewIPRateLimiter(middleware.RateLimitOptions{
			RPS:   c.MayFloat64("RPS", rps),
			Burst: c.MayInt("BURST", burst),
		})
		return middleware.RateLimit(l, phttp.JSON)
	}

	affiliate := affiliatemod.New(deps)
	rewriter := module.MustPortsOf[affiliatemod.Ports](affiliate).Rewriter

	mods := []module.Module{
		metamod.New(deps),
		identitymod.New(deps, modkit.WithInject(identitymod.Inject{Publisher: broker})),
		affiliate,
		scrapermod.New(deps, modkit.WithMiddlewares(limit("SCRAPER_RATE_", 2, 10))),
		moderationmod.New(deps),
		inboxmod.New(deps, modkit.WithInject(inboxmod.Inject{Broker: broker, Rewriter: rewriter})),
		ingestmod.New(deps,
			modkit.WithInject(ingestmod.Inject{Publisher: broker}),
			modkit.WithMiddlewares(limit("WEBHOOK_RATE_", 20, 50)),
		),
	}

	// empty origins allow any, webhook senders are servers
	stack := httpkit.CommonStackWith(middleware.CORSOptions{
		AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
	})

	// load balancer check, answered before routing
	r.Use(middleware.Heartbeat("/health"))

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}
