package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"purchaseinbox/internal/core/lexicon"
	phttp "purchaseinbox/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func get(t *testing.T, d Deps, path string, out any) {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, d)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("%s: status = %d", path, rec.Code)
	}
	env := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
}

func backends(pg, ch, bus, kv any) Deps {
	return Deps{Backends: []Backend{
		{Name: "pg", Required: true, Conn: pg},
		{Name: "ch", Conn: ch},
		{Name: "nats", Conn: bus},
		{Name: "redis", Conn: kv},
	}}
}

func TestReady(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		deps Deps
		want string
	}{
		{"all up", backends(pinger{}, pinger{}, pinger{}, pinger{}), "ok"},
		{"optional skipped", backends(pinger{}, nil, nil, nil), "ok"},
		{"no postgres", backends(nil, nil, nil, pinger{}), "degraded"},
		{"redis down", backends(pinger{}, nil, nil, pinger{err: errors.New("refused")}), "fail"},
		{"postgres down", backends(pinger{err: errors.New("refused")}, pinger{}, nil, nil), "fail"},
		{"cannot ping", backends(struct{}{}, nil, nil, nil), "degraded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got ReadyResponse
			get(t, tc.deps, "/ready", &got)
			if got.Status != tc.want || len(got.Checks) != 4 || got.Checks[3].Name != "redis" {
				t.Fatalf("ready = %+v", got)
			}
		})
	}
}

func TestLexiconAndVersion(t *testing.T) {
	t.Parallel()
	d := Deps{ServiceName: "inbox-api", StartedAt: time.Now(), Lexicon: lexicon.MustDefault()}

	var lx LexiconResponse
	get(t, d, "/lexicon", &lx)
	if lx.Version != 1 || lx.Lemmas == 0 || lx.BlockedDomains == 0 || lx.Build.Service != "inbox-api" {
		t.Fatalf("lexicon = %+v", lx)
	}

	var svc ServiceResponse
	get(t, d, "/service", &svc)
	if svc.Name != "inbox-api" || svc.Uptime < 0 {
		t.Fatalf("service = %+v", svc)
	}
}
