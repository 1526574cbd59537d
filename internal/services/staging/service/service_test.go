package service

import (
	"context"
	"errors"
	"testing"

	"purchaseinbox/internal/adapters/commerce"
	"purchaseinbox/internal/modkit/repokit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/store"
	"purchaseinbox/internal/platform/testkit"
	"purchaseinbox/internal/services/staging/domain"
	"purchaseinbox/internal/services/staging/repo"

	"github.com/google/uuid"
)

type nopTx struct{ txs int }

func (*nopTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (*nopTx) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (*nopTx) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (n *nopTx) Tx(_ context.Context, fn func(repokit.Queryer) error) error {
	n.txs++
	return fn(n)
}

func newSvc(t *testing.T) (*Svc, *repo.Memory, *nopTx) {
	t.Helper()
	mem := repo.NewMemory(map[string]string{"jon@example.com": "u-1"})
	tx := &nopTx{}
	return New(tx, mem), mem, tx
}

func order(id, email string) commerce.RawOrder {
	return commerce.RawOrder{
		Source:        commerce.SourceShopify,
		SourceOrderID: id,
		CustomerEmail: email,
		Item:          commerce.LineItem{Name: "Desk Lamp", Price: 39.99, Currency: "USD", Quantity: 1},
		StoreDomain:   "lamp.myshopify.com",
	}
}

func TestNew_PanicsOnNilDeps(t *testing.T) {
	t.Parallel()
	testkit.MustPanic(t, func() { New(nil, repo.NewMemory(nil)) })
	testkit.MustPanic(t, func() { New(&nopTx{}, nil) })
}

func TestInsertAll_MatchesAndDedupes(t *testing.T) {
	t.Parallel()
	s, mem, tx := newSvc(t)
	ctx := context.Background()

	res, err := s.InsertAll(ctx, []commerce.RawOrder{
		order("1-1", " Jon@Example.com "),
		order("1-2", "jon@example.com"),
	})
	if err != nil {
		t.Fatalf("InsertAll: %v", err)
	}
	if tx.txs != 1 {
		t.Fatalf("want one transaction, got %d", tx.txs)
	}
	if len(res) != 2 || !res[0].Created || !res[1].Created {
		t.Fatalf("results = %+v", res)
	}
	if got := res[0].Order; got.Owner() != "u-1" || !got.Matched || got.CustomerEmail != "jon@example.com" {
		t.Fatalf("order = %+v", got)
	}

	again, err := s.InsertAll(ctx, []commerce.RawOrder{order("1-1", "jon@example.com")})
	if err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if again[0].Created || again[0].Order.ID != res[0].Order.ID {
		t.Fatalf("redelivery should return the existing row: %+v", again[0])
	}
	if n := len(mem.Orders()); n != 2 {
		t.Fatalf("rows = %d", n)
	}
}

func TestInsertAll_Validation(t *testing.T) {
	t.Parallel()
	s, _, _ := newSvc(t)
	ctx := context.Background()

	if _, err := s.InsertAll(ctx, nil); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("empty batch: %v", err)
	}

	bad := order("2-1", "  ")
	_, err := s.InsertAll(ctx, []commerce.RawOrder{bad})
	e, ok := perr.As(err)
	if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != "customer_email" {
		t.Fatalf("blank email: %v", err)
	}

	src := order("2-2", "a@b.c")
	src.Source = "ebay"
	if _, err := s.InsertAll(ctx, []commerce.RawOrder{src}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("unknown source: %v", err)
	}
}

func TestInsert_NewIDFailure(t *testing.T) {
	t.Parallel()
	s, _, _ := newSvc(t)
	s.newID = func() (uuid.UUID, error) { return uuid.Nil, errors.New("entropy") }
	if _, _, err := s.Insert(context.Background(), order("3-1", "a@b.c")); err == nil {
		t.Fatal("want error")
	}
}

func TestUnmatchedOrderHasNoOwner(t *testing.T) {
	t.Parallel()
	s, _, _ := newSvc(t)
	ctx := context.Background()

	o, created, err := s.Insert(ctx, order("4-1", "stranger@example.com"))
	if err != nil || !created {
		t.Fatalf("Insert: %v %v", created, err)
	}
	if o.Matched || o.UserID != nil {
		t.Fatalf("want unmatched, got %+v", o)
	}
	list, err := s.ListUnmatched(ctx, "STRANGER@example.com")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListUnmatched = %v %v", list, err)
	}
	pending, err := s.ListPending(ctx, "u-1")
	if err != nil || len(pending) != 0 || pending == nil {
		t.Fatalf("ListPending = %#v %v", pending, err)
	}
}

func TestTransition(t *testing.T) {
	t.Parallel()
	s, _, _ := newSvc(t)
	ctx := context.Background()
	o, _, err := s.Insert(ctx, order("5-1", "jon@example.com"))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		in      domain.TransitionArgs
		fails   bool
		code    perr.ErrorCode
		changed bool
	}{
		{"bad target", domain.TransitionArgs{ID: o.ID, Owner: "u-1", To: domain.StatusPending}, true, perr.ErrorCodeValidation, false},
		{"bad id", domain.TransitionArgs{ID: "nope", Owner: "u-1", To: domain.StatusAccepted}, true, perr.ErrorCodeNotFound, false},
		{"other user", domain.TransitionArgs{ID: o.ID, Owner: "u-2", To: domain.StatusAccepted}, true, perr.ErrorCodeNotFound, false},
		{"accept", domain.TransitionArgs{ID: o.ID, Owner: "u-1", To: domain.StatusAccepted}, false, 0, true},
		{"second accept", domain.TransitionArgs{ID: o.ID, Owner: "u-1", To: domain.StatusAccepted}, false, 0, false},
		{"reject after accept", domain.TransitionArgs{ID: o.ID, Owner: "u-1", To: domain.StatusRejected}, false, 0, false},
	}
	for _, tc := range cases {
		got, changed, err := s.Transition(ctx, tc.in)
		if tc.fails {
			if !perr.IsCode(err, tc.code) {
				t.Fatalf("%s: want %v, got %v", tc.name, tc.code, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if changed != tc.changed || got.Status != domain.StatusAccepted || got.ProcessedAt == nil {
			t.Fatalf("%s: changed=%v order=%+v", tc.name, changed, got)
		}
	}

	pending, _ := s.ListPending(ctx, "u-1")
	if len(pending) != 0 {
		t.Fatalf("accepted order still pending: %+v", pending)
	}
}

func TestListPending_RequiresUser(t *testing.T) {
	t.Parallel()
	s, _, _ := newSvc(t)
	if _, err := s.ListPending(context.Background(), ""); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("err = %v", err)
	}
}
