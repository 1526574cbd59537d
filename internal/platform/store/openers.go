package store

import (
	"cmp"
	"context"
	"fmt"
	"time"

	"purchaseinbox/internal/platform/store/bus"
	chx "purchaseinbox/internal/platform/store/ch"
	"purchaseinbox/internal/platform/store/kv"
	"purchaseinbox/internal/platform/store/pg"
)

const (
	pgConnectRetries = 20
	pgPingTimeout    = 3 * time.Second
	backoffStart     = 150 * time.Millisecond
	backoffCeiling   = 2 * time.Second
)

// openPG dials the pool and waits for it to answer before handing out the adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = pgConnectRetries
	}
	// pool ping, no trace line
	if err := pingWithBackoff(ctx, p.Pool.Ping, attempts, cmp.Or(cfg.PG.PingTimeout, pgPingTimeout)); err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

// pingWithBackoff retries ping up to attempts times, doubling the wait up to backoffCeiling
// a canceled ctx ends the loop with ctx's error
func pingWithBackoff(ctx context.Context, ping func(context.Context) error, attempts int, timeout time.Duration) error {
	var last error
	wait := backoffStart
	for range attempts {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		last = ping(pctx)
		cancel()
		if last == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, backoffCeiling)
	}
	return fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, last)
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: cfg.CH.ClientName,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	return &chAdapter{c: c}, nil
}

func openBus(cfg Config, s *Store) (Bus, error) {
	name := cfg.NATS.Name
	if name == "" {
		name = cfg.AppName
	}
	c, err := bus.Open(bus.Config{
		URL:           cfg.NATS.URL,
		Name:          name,
		MaxReconnects: cfg.NATS.MaxReconnects,
		ReconnectWait: cfg.NATS.ReconnectWait,
	}, s.Log)
	if err != nil {
		return nil, err
	}
	return newBusAdapter(c), nil
}

func openKV(ctx context.Context, cfg Config, _ *Store) (KV, error) {
	c, err := kv.Open(ctx, kv.Config{
		Addr:     cfg.RDS.Addr,
		Password: cfg.RDS.Password,
		DB:       cfg.RDS.DB,
	})
	if err != nil {
		return nil, err
	}
	return newKVAdapter(c), nil
}
