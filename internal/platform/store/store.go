// Package store provides a unified interface to optional storage backends
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"purchaseinbox/internal/platform/logger"
)

// Store is the facade for optional backends
// zero value is safe but does nothing
type Store struct {
	// Log is the logger used by subclients
	// zero means a no op zerolog logger
	Log logger.Logger

	// PG is the postgres sql seam, nil when disabled
	PG TxRunner

	// CH is the clickhouse seam, nil when disabled
	CH Clickhouse

	// Bus is the nats pub/sub seam, nil when disabled
	Bus Bus

	// KV is the redis cache seam, nil when disabled
	KV KV
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the append-only columnar seam used for audit events
type Clickhouse interface {
	// Insert appends rows to table in one batch
	Insert(ctx context.Context, table string, rows [][]any) error
	Close() error
}

// Msg is a single message delivered by the Bus
type Msg struct {
	Subject string
	Data    []byte
}

// Subscription is returned by Bus subscriptions
type Subscription interface {
	Unsubscribe() error
}

// Bus is a tiny seam for subject based pub/sub
type Bus interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Subscribe(subject string, fn func(Msg)) (Subscription, error)
	QueueSubscribe(subject, queue string, fn func(Msg)) (Subscription, error)
	Close() error
}

// KV is a tiny seam for a byte cache with expiry
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Close() error
}

// Option configures Open
type Option func(*Store)

// WithLogger sets the logger handed to the backends
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.Log = log }
}

// Pinger is any backend that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open dials the backends cfg enables, in order pg, ch, nats, redis
// the first failure closes whatever was already open
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		o(s)
	}
	s.Log = s.Log.With().Logger()

	var err error
	if cfg.PG.Enabled {
		if s.PG, err = openPG(ctx, cfg, s); err != nil {
			return nil, err
		}
	}
	if cfg.CH.Enabled {
		if s.CH, err = openCH(ctx, cfg, s); err != nil {
			return nil, s.closeAfter(err)
		}
	}
	if cfg.NATS.Enabled {
		if s.Bus, err = openBus(cfg, s); err != nil {
			return nil, s.closeAfter(err)
		}
	}
	if cfg.RDS.Enabled {
		if s.KV, err = openKV(ctx, cfg, s); err != nil {
			return nil, s.closeAfter(err)
		}
	}
	return s, nil
}

func (s *Store) closeAfter(err error) error {
	_ = s.Close(context.Background())
	return err
}

type backend struct {
	name string
	conn any
}

// backends lists the open backends, closing order
func (s *Store) backends() []backend {
	var out []backend
	if s.Bus != nil {
		out = append(out, backend{"nats", s.Bus})
	}
	if s.KV != nil {
		out = append(out, backend{"redis", s.KV})
	}
	if s.CH != nil {
		out = append(out, backend{"ch", s.CH})
	}
	if s.PG != nil {
		out = append(out, backend{"pg", s.PG})
	}
	return out
}

// Guard pings every open backend that can be pinged
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for _, b := range s.backends() {
		if p, ok := b.conn.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes the open backends, pg last
func (s *Store) Close(context.Context) error {
	var errs []error
	for _, b := range s.backends() {
		if c, ok := b.conn.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
			}
		}
	}
	return errors.Join(errs...)
}
