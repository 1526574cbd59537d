package net_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	perr "purchaseinbox/internal/platform/errors"
	pnet "purchaseinbox/internal/platform/net"
)

func TestRequestID_FromChi(t *testing.T) {
	t.Parallel()
	var got string
	h := chimw.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = pnet.RequestID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inbox", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "req-abc" {
		t.Fatalf("RequestID = %q", got)
	}
	if pnet.RequestID(context.Background()) != "" {
		t.Fatal("want empty outside a request")
	}
}

func TestWithUser(t *testing.T) {
	t.Parallel()
	ctx := pnet.WithUser(context.Background(), "u-1", "ana@example.com")
	if pnet.UserID(ctx) != "u-1" || pnet.Email(ctx) != "ana@example.com" {
		t.Fatalf("got %q %q", pnet.UserID(ctx), pnet.Email(ctx))
	}
	// tokens without a verified email
	ctx = pnet.WithUser(context.Background(), "u-2", "")
	if pnet.UserID(ctx) != "u-2" || pnet.Email(ctx) != "" {
		t.Fatal("email should stay empty")
	}
}

func TestError(t *testing.T) {
	t.Parallel()
	status, w := pnet.Error(perr.Unauthorizedf("invalid bearer token"), "req-1")
	if status != http.StatusUnauthorized || w.StatusCode != status || w.Status != "Unauthorized" {
		t.Fatalf("got %d %+v", status, w)
	}
	if w.Code != perr.ErrorCodeUnauthorized || w.Error != "invalid bearer token" || w.RequestID != "req-1" {
		t.Fatalf("wire = %+v", w)
	}
}
