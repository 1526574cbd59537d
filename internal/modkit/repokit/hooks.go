package repokit

import (
	"context"
	"fmt"
	"time"
)

// BeginHook runs first inside every transaction, on the tx bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks returns a TxRunner that runs hooks at the start of each Tx
// statements outside a Tx pass straight through
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	if len(hooks) == 0 {
		return inner
	}
	return hookedTx{TxRunner: inner, hooks: hooks}
}

type hookedTx struct {
	TxRunner
	hooks []BeginHook
}

func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hk := range h.hooks {
			if err := hk(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

// Ping keeps readiness checks working through the wrapper
func (h hookedTx) Ping(ctx context.Context) error {
	p, ok := h.TxRunner.(interface{ Ping(context.Context) error })
	if !ok {
		return fmt.Errorf("repokit: %T cannot ping", h.TxRunner)
	}
	return p.Ping(ctx)
}

// StatementTimeout caps every statement of the transaction at d
// d <= 0 yields a no-op hook
func StatementTimeout(d time.Duration) BeginHook {
	ms := d.Milliseconds()
	return func(ctx context.Context, q Queryer) error {
		if ms <= 0 {
			return nil
		}
		// SET cannot take bind parameters
		if _, err := q.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", ms)); err != nil {
			return fmt.Errorf("repokit: set statement_timeout: %w", err)
		}
		return nil
	}
}
