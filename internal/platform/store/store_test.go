package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestOpen_BackendErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cfg  Config
	}{
		{"pg bad dsn", Config{PG: PGConfig{Enabled: true, URL: "://bad"}}},
		{"ch empty url", Config{CH: CHConfig{Enabled: true}}},
		{"nats empty url", Config{NATS: NATSConfig{Enabled: true}}},
		{"redis empty addr", Config{RDS: RedisConfig{Enabled: true}}},
		// pg fails first, ch is never dialed
		{"first failure wins", Config{
			PG: PGConfig{Enabled: true, URL: "://bad"},
			CH: CHConfig{Enabled: true, URL: "clickhouse://127.0.0.1:1"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, err := Open(context.Background(), tc.cfg)
			if err == nil || s != nil {
				t.Fatalf("Open = %v, %v", s, err)
			}
		})
	}
}

func TestOpen_NothingEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{AppName: "inbox-api"}, WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil || s.Bus != nil || s.KV != nil {
		t.Fatalf("unexpected backend: %+v", s)
	}
	s.Log.Info().Msg("store ready")
	if !strings.Contains(buf.String(), "store ready") {
		t.Fatalf("WithLogger not applied, got %q", buf.String())
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

type pingTx struct {
	TxRunner
	err error
}

func (p pingTx) Ping(context.Context) error { return p.err }

type pingBus struct {
	Bus
	err error
}

func (p pingBus) Ping(context.Context) error { return p.err }

type pingKV struct {
	KV
	err error
}

func (p pingKV) Ping(context.Context) error { return p.err }

func TestGuard(t *testing.T) {
	t.Parallel()

	down := errors.New("down")
	cases := []struct {
		name string
		s    *Store
		want []string
	}{
		{"nil store", nil, []string{"nil store"}},
		{"all healthy", &Store{PG: pingTx{}, Bus: pingBus{}, KV: pingKV{}}, nil},
		{"pg down", &Store{PG: pingTx{err: down}}, []string{"pg: down"}},
		{"bus and cache down", &Store{Bus: pingBus{err: down}, KV: pingKV{err: down}}, []string{"nats: down", "redis: down"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.s.Guard(context.Background())
			if len(tc.want) == 0 {
				if err != nil {
					t.Fatalf("Guard = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			for _, w := range tc.want {
				if !strings.Contains(err.Error(), w) {
					t.Fatalf("Guard = %v, want %q", err, w)
				}
			}
		})
	}
}

func TestOpenPG_GivesUp(t *testing.T) {
	t.Parallel()

	// nothing listens on port 1
	const dsn = "postgres://u:p@127.0.0.1:1/inbox?sslmode=disable"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if txr, err := openPG(ctx, Config{PG: PGConfig{URL: dsn}}, &Store{}); err == nil || txr != nil {
		t.Fatalf("canceled: %v, %v", txr, err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("canceled context should fail fast")
	}

	cfg := Config{PG: PGConfig{URL: dsn, ConnectRetries: 1, PingTimeout: 200 * time.Millisecond}}
	if _, err := openPG(context.Background(), cfg, &Store{}); err == nil || !strings.Contains(err.Error(), "after 1 attempts") {
		t.Fatalf("retries: %v", err)
	}
}

func TestPingWithBackoff(t *testing.T) {
	t.Parallel()

	calls := 0
	flaky := func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}
	if err := pingWithBackoff(context.Background(), flaky, 5, time.Second); err != nil || calls != 3 {
		t.Fatalf("pingWithBackoff = %v after %d calls", err, calls)
	}

	down := func(context.Context) error { return errors.New("connection refused") }
	err := pingWithBackoff(context.Background(), down, 2, time.Second)
	if err == nil || !strings.Contains(err.Error(), "after 2 attempts: connection refused") {
		t.Fatalf("pingWithBackoff = %v", err)
	}
}
