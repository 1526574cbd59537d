package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func header(name string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.Header().Set(name, "1")
			next.ServeHTTP(w, r)
		})
	}
}

func ok(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusOK) }

func TestAdaptChi(t *testing.T) {
	t.Parallel()
	r := AdaptChi(chi.NewRouter())
	r.Route("/api/v1", func(api Router) {
		api.Use(header("X-Api"))
		api.Route("/inbox", func(inbox Router) {
			inbox.Group(func(g Router) {
				g.Use(header("X-Auth"))
				g.Get("/", ok)
				g.Post("/{id}/accept", ok)
			})
			inbox.Options("/", ok)
		})
		api.Handle("/raw", stdhttp.HandlerFunc(ok))
	})

	cases := []struct {
		method, path string
		status       int
		auth         bool
	}{
		{"GET", "/api/v1/inbox/", 200, true},
		{"POST", "/api/v1/inbox/o-1/accept", 200, true},
		{"OPTIONS", "/api/v1/inbox/", 200, false},
		{"PUT", "/api/v1/raw", 200, false},
		{"GET", "/api/v1/missing", 404, false},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s %s: status %d", tc.method, tc.path, rec.Code)
		}
		if tc.status == 200 && rec.Header().Get("X-Api") != "1" {
			t.Fatalf("%s %s: api middleware skipped", tc.method, tc.path)
		}
		if (rec.Header().Get("X-Auth") == "1") != tc.auth {
			t.Fatalf("%s %s: group middleware leak", tc.method, tc.path)
		}
	}
}
