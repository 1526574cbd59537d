// Command inbox-matcher claims staged orders for users as auth login events arrive
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"purchaseinbox/internal/adapters/pubsub"
	"purchaseinbox/internal/modkit"
	"purchaseinbox/internal/modkit/repokit"
	"purchaseinbox/internal/platform/config"
	"purchaseinbox/internal/platform/logger"
	"purchaseinbox/internal/platform/store"

	identitymod "purchaseinbox/internal/services/identity/module"
	isvc "purchaseinbox/internal/services/identity/service"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	natsCfg := root.Prefix("SERVICE_NATS_")
	mCfg := root.Prefix("MATCHER_")

	var (
		fSubject = flag.String("subject", mCfg.MayString("SUBJECT", "auth.login"), "auth event subject")
		fQueue   = flag.String("queue", mCfg.MayString("QUEUE", "inbox-matcher"), "queue group shared by matcher replicas")
	)
	flag.Parse()

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		AppName: "inbox-matcher",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		NATS: store.NATSConfig{
			Enabled:       true,
			URL:           natsCfg.MustString("URL"),
			MaxReconnects: natsCfg.MayInt("MAX_RECONNECTS", -1),
			ReconnectWait: natsCfg.MayDuration("RECONNECT_WAIT", 2*time.Second),
		},
	}, store.WithLogger(*l))
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

	deps := modkit.Deps{
		Cfg: root,
		PG:  repokit.WithBeginHooks(st.PG, repokit.StatementTimeout(pgCfg.MayDuration("STATEMENT_TIMEOUT", 5*time.Second))),
		Bus: st.Bus,
		Log: *l,
	}

	// matched users get an inbox event that api replicas relay to their streams
	broker := pubsub.New(pubsub.Options{Bus: st.Bus, SubjectPrefix: natsCfg.MayString("INBOX_SUBJECT", pubsub.DefaultSubjectPrefix)})
	id := identitymod.New(deps, modkit.WithInject(identitymod.Inject{Publisher: broker}))

	// the subscription is dropped when ctx is done
	if _, err := id.Service().Listen(ctx, st.Bus, isvc.ListenOptions{Subject: *fSubject, Queue: *fQueue}); err != nil {
		l.Panic().Err(err).Msg("listen failed")
	}

	<-ctx.Done()
	l.Info().Msg("matcher stopping")
}
