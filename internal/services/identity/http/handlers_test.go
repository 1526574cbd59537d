package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"purchaseinbox/internal/modkit/httpkit"
	perr "purchaseinbox/internal/platform/errors"
	phttp "purchaseinbox/internal/platform/net/http"
	"purchaseinbox/internal/services/identity/domain"

	"github.com/go-chi/chi/v5"
)

type fakeAuth struct{ uid, email string }

func (f fakeAuth) Parse(*stdhttp.Request) (string, string, error) {
	if f.uid == "" {
		return "", "", perr.Unauthorizedf("invalid bearer token")
	}
	return f.uid, f.email, nil
}

type fakeSvc struct{ got []string }

func (f *fakeSvc) Match(context.Context, string, string) (int, error) { return 0, nil }
func (f *fakeSvc) Sync(_ context.Context, uid, email string) domain.SyncResult {
	f.got = append(f.got, uid, email)
	return domain.SyncResult{Matched: 3}
}
func (f *fakeSvc) HandleLogin(context.Context, domain.LoginEvent) domain.SyncResult {
	return domain.SyncResult{}
}

func serve(t *testing.T, auth fakeAuth, s *fakeSvc) *httptest.ResponseRecorder {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, s, auth)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodPost, "/sync", nil))
	return rec
}

func TestSync(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		auth   fakeAuth
		status int
	}{
		{"verified", fakeAuth{uid: "u-1", email: "jon@example.com"}, stdhttp.StatusOK},
		{"unverified email", fakeAuth{uid: "u-1"}, stdhttp.StatusUnauthorized},
		{"no token", fakeAuth{}, stdhttp.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := &fakeSvc{}
			rec := serve(t, tc.auth, s)
			if rec.Code != tc.status {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
			}
			if tc.status != stdhttp.StatusOK {
				if len(s.got) != 0 {
					t.Fatalf("service called without credentials")
				}
				return
			}
			var env struct {
				httpkit.Envelope
				Data domain.SyncResult `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatal(err)
			}
			if env.Data.Matched != 3 || s.got[0] != "u-1" || s.got[1] != "jon@example.com" {
				t.Fatalf("env=%+v got=%v", env, s.got)
			}
		})
	}
}
