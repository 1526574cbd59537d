package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	perrs "purchaseinbox/internal/platform/errors"
	phttp "purchaseinbox/internal/platform/net/http"
	"purchaseinbox/internal/platform/net/middleware"
)

type extractInput struct {
	URL string `json:"url" validate:"required,max=2048"`
}

func serve(r Router, method, path, body string, hdr map[string]string) (*httptest.ResponseRecorder, Envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req)
	var env Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestSugar(t *testing.T) {
	t.Parallel()
	r := phttp.AdaptChi(chi.NewRouter())
	PostJSON(r, "/scraper/extract", func(_ *http.Request, in extractInput) (any, error) {
		return map[string]string{"url": in.URL}, nil
	})
	Get(r, "/inbox/{id}", func(r *http.Request) (any, error) {
		if chi.URLParam(r, "id") == "missing" {
			return nil, perrs.NotFoundf("staging order missing")
		}
		return phttp.Response{Status: http.StatusTeapot, Body: "custom"}, nil
	})
	Post(r, "/webhooks/generic", func(*http.Request) (any, error) { return nil, nil })

	cases := []struct {
		method, path, body string
		status             int
		field              string
	}{
		{"POST", "/scraper/extract", `{"url":"https://lamp.example/p/1"}`, 200, ""},
		{"POST", "/scraper/extract", `{}`, 400, "url"},
		{"POST", "/scraper/extract", `{"url":`, 400, ""},
		{"GET", "/inbox/missing", "", 404, ""},
		{"GET", "/inbox/o-1", "", http.StatusTeapot, ""},
		{"POST", "/webhooks/generic", "raw", 200, ""},
	}
	for _, tc := range cases {
		rec, env := serve(r, tc.method, tc.path, tc.body, nil)
		if rec.Code != tc.status || env.StatusCode != tc.status || env.Field != tc.field {
			t.Fatalf("%s %s %q: got %d %+v", tc.method, tc.path, tc.body, rec.Code, env)
		}
	}
}

func TestProtected(t *testing.T) {
	t.Parallel()
	port := NewPortFunc(func(tok string) (string, string, error) {
		switch tok {
		case "with-email":
			return "u-1", "ana@example.com", nil
		case "no-email":
			return "u-2", "", nil
		}
		return "", "", errors.New("bad")
	})

	r := phttp.AdaptChi(chi.NewRouter())
	MountAPIV1(r, nil, func(api Router) {
		Protected(api, port, func(pr Router) {
			Get(pr, "/identity/me", func(r *http.Request) (any, error) {
				uid, err := User(r)
				if err != nil {
					return nil, err
				}
				email, err := Email(r)
				if err != nil {
					return nil, err
				}
				return uid + " " + email, nil
			})
		})
		Get(api, "/meta/health", func(r *http.Request) (any, error) {
			_, err := User(r)
			return nil, err
		})
	})

	cases := []struct {
		path, auth string
		status     int
		data       any
	}{
		{"/api/v1/identity/me", "Bearer with-email", 200, "u-1 ana@example.com"},
		{"/api/v1/identity/me", "Bearer no-email", 401, nil},
		{"/api/v1/identity/me", "Bearer nope", 401, nil},
		{"/api/v1/identity/me", "", 401, nil},
		{"/api/v1/meta/health", "", 401, nil},
		{"/identity/me", "Bearer with-email", 404, nil},
	}
	for _, tc := range cases {
		rec, env := serve(r, "GET", tc.path, "", map[string]string{"Authorization": tc.auth})
		if rec.Code != tc.status || env.Data != tc.data {
			t.Fatalf("%s %q: got %d %+v", tc.path, tc.auth, rec.Code, env)
		}
		if tc.status == 401 && env.Code != perrs.ErrorCodeUnauthorized {
			t.Fatalf("%s %q: code %v", tc.path, tc.auth, env.Code)
		}
	}
}

func TestCommonStackWith(t *testing.T) {
	t.Parallel()
	r := phttp.AdaptChi(chi.NewRouter())
	MountAPIV1(r, CommonStackWith(middleware.CORSOptions{}), func(api Router) {
		Get(api, "/inbox", func(*http.Request) (any, error) { return []string{}, nil })
		Get(api, "/boom", func(*http.Request) (any, error) { panic("boom") })
	})

	rec, env := serve(r, "GET", "/api/v1/inbox", "", nil)
	if rec.Code != 200 || env.RequestID == "" {
		t.Fatalf("got %d %+v", rec.Code, env)
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Fatal("no-cache headers missing")
	}

	rec, _ = serve(r, "GET", "/api/v1/boom", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("panic status = %d", rec.Code)
	}
}
