package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"purchaseinbox/internal/platform/store"
)

// recTx records statements and runs Tx callbacks on itself
type recTx struct {
	sql     []string
	execErr error
	txs     int
}

func (r *recTx) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	r.sql = append(r.sql, sql)
	return nil, r.execErr
}

func (r *recTx) Query(_ context.Context, sql string, _ ...any) (store.Rows, error) {
	r.sql = append(r.sql, sql)
	return nil, nil
}

func (r *recTx) QueryRow(_ context.Context, sql string, _ ...any) store.Row {
	r.sql = append(r.sql, sql)
	return nil
}

func (r *recTx) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	r.txs++
	return fn(r)
}

func TestWithBeginHooks_NoHooksReturnsInner(t *testing.T) {
	t.Parallel()
	inner := &recTx{}
	if got := WithBeginHooks(inner); got != TxRunner(inner) {
		t.Fatalf("expected inner runner back, got %T", got)
	}
}

func TestWithBeginHooks_RunsBeforeCallback(t *testing.T) {
	t.Parallel()
	inner := &recTx{}
	var order []string
	hook := func(_ context.Context, q Queryer) error {
		order = append(order, "hook")
		_, err := q.Exec(context.Background(), "SET LOCAL lock_timeout = 100")
		return err
	}
	tx := WithBeginHooks(inner, hook)

	err := tx.Tx(context.Background(), func(q Queryer) error {
		order = append(order, "fn")
		_, err := q.Exec(context.Background(), "UPDATE staging_orders SET status = 'accepted'")
		return err
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if strings.Join(order, ",") != "hook,fn" {
		t.Fatalf("order = %v", order)
	}
	if len(inner.sql) != 2 || !strings.HasPrefix(inner.sql[0], "SET LOCAL") {
		t.Fatalf("sql = %v", inner.sql)
	}

	// outside a tx nothing is injected
	if _, err := tx.Exec(context.Background(), "SELECT 1"); err != nil {
		t.Fatal(err)
	}
	if inner.sql[2] != "SELECT 1" || inner.txs != 1 {
		t.Fatalf("sql = %v txs = %d", inner.sql, inner.txs)
	}
}

func TestWithBeginHooks_HookErrorSkipsCallback(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	tx := WithBeginHooks(&recTx{}, func(context.Context, Queryer) error { return boom })
	called := false
	err := tx.Tx(context.Background(), func(Queryer) error {
		called = true
		return nil
	})
	if !errors.Is(err, boom) || called {
		t.Fatalf("err = %v called = %v", err, called)
	}
}

func TestStatementTimeout(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		d    time.Duration
		want []string
	}{
		{"seconds", 5 * time.Second, []string{"SET LOCAL statement_timeout = 5000"}},
		{"sub second", 250 * time.Millisecond, []string{"SET LOCAL statement_timeout = 250"}},
		{"zero disables", 0, nil},
		{"negative disables", -time.Second, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q := &recTx{}
			if err := StatementTimeout(tc.d)(context.Background(), q); err != nil {
				t.Fatal(err)
			}
			if strings.Join(q.sql, ";") != strings.Join(tc.want, ";") {
				t.Fatalf("sql = %v, want %v", q.sql, tc.want)
			}
		})
	}

	q := &recTx{execErr: errors.New("read only")}
	if err := StatementTimeout(time.Second)(context.Background(), q); err == nil {
		t.Fatal("expected exec error to surface")
	}
}

func TestBindFunc(t *testing.T) {
	t.Parallel()
	q := &recTx{}
	var b Binder[Queryer] = BindFunc[Queryer](func(x Queryer) Queryer { return x })
	if b.Bind(q) != Queryer(q) {
		t.Fatal("BindFunc should pass the queryer through")
	}
}
