// @title         Purchase Inbox API
// @version       0.1.0
// @description   Webhook ingestion, inbox review, scraping, moderation and affiliate links

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"purchaseinbox/internal/adapters/pubsub"
	"purchaseinbox/internal/platform/config"
	"purchaseinbox/internal/platform/logger"
	phttp "purchaseinbox/internal/platform/net/http"
	"purchaseinbox/internal/platform/store"

	"purchaseinbox/internal/services/api"

	"golang.org/x/sync/errgroup"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // moderation audit, optional
	natsCfg := root.Prefix("SERVICE_NATS_")     // inbox fan out across replicas, optional
	rdsCfg := root.Prefix("SERVICE_REDIS_")     // scrape cache, optional

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "inbox-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled:    chCfg.MayString("DBURL", "") != "",
				URL:        chCfg.MayString("DBURL", ""),
				ClientName: "purchaseinbox",
				ClientTag:  "api",
			},
			NATS: store.NATSConfig{
				Enabled:       natsCfg.MayString("URL", "") != "",
				URL:           natsCfg.MayString("URL", ""),
				MaxReconnects: natsCfg.MayInt("MAX_RECONNECTS", -1),
				ReconnectWait: natsCfg.MayDuration("RECONNECT_WAIT", 2*time.Second),
			},
			RDS: store.RedisConfig{
				Enabled:  rdsCfg.MayString("ADDR", "") != "",
				Addr:     rdsCfg.MayString("ADDR", ""),
				Password: rdsCfg.MayString("PASSWORD", ""),
				DB:       rdsCfg.MayInt("DB", 0),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := st.Guard(ctx); err != nil {
		l.Warn().Err(err).Msg("backend check failed, continuing")
	}

	if pgCfg.MayBool("ENSURE_SCHEMA", false) {
		if err := store.EnsureSchema(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("ensure schema failed")
		}
		l.Info().Msg("schema ensured")
	}

	broker := pubsub.New(pubsub.Options{Bus: st.Bus, SubjectPrefix: natsCfg.MayString("INBOX_SUBJECT", pubsub.DefaultSubjectPrefix)})
	if err := broker.Start(ctx); err != nil {
		l.Panic().Err(err).Msg("inbox relay failed")
	}

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Broker:         broker,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
