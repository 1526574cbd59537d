package middleware_test

import (
	"bytes"
	"compress/flate"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/logger"
	pnet "purchaseinbox/internal/platform/net"
	"purchaseinbox/internal/platform/net/middleware"
	kit "purchaseinbox/internal/platform/testkit"
)

func TestRecoverJSON(t *testing.T) {
	h := chimw.RequestID(middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil rewriter")
	})))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inbox/o-1/accept", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-p")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var w pnet.Wire
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatal(err)
	}
	if w.Code != perr.ErrorCodePanic || w.RequestID != "req-p" || w.Error != "panic recovered" {
		t.Fatalf("wire = %+v", w)
	}
}

func TestRecoverJSON_AbortHandler(t *testing.T) {
	h := middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	kit.MustPanic(t, func() { h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil)) })
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(logger.Options{Level: "debug", Format: "json", Writer: &buf})

	var inner string
	h := chimw.RequestID(middleware.AccessLog(time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.C(r.Context()).Info().Msg("order ingested")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("abc"))
		inner = pnet.RequestID(r.Context())
	})))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/shopify", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-log")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if inner != "req-log" || strings.Count(out, `"request_id":"req-log"`) != 2 {
		t.Fatalf("request id not carried: %q", out)
	}
	kit.MustContain(t, out, `"status":201`)
	kit.MustContain(t, out, `"bytes":3`)
	kit.MustContain(t, out, `"path":"/api/v1/webhooks/shopify"`)
}

func TestAccessLog_Levels(t *testing.T) {
	cases := []struct {
		name  string
		slow  time.Duration
		code  int
		level string
	}{
		{"fast ok", time.Hour, http.StatusOK, "info"},
		{"slow", time.Nanosecond, http.StatusOK, "warn"},
		{"server error", time.Hour, http.StatusBadGateway, "error"},
		{"never slow", 0, http.StatusNoContent, "info"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		logger.Init(logger.Options{Level: "debug", Format: "json", Writer: &buf})
		h := middleware.AccessLog(tc.slow)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(time.Millisecond)
			w.WriteHeader(tc.code)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/meta/ready", nil))
		kit.MustContain(t, buf.String(), `"level":"`+tc.level+`"`)
	}
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()
	h := middleware.CORS(middleware.CORSOptions{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/webhooks/shopify", nil)
	req.Header.Set("Origin", "https://cool-shop.myshopify.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "X-Shopify-Hmac-Sha256")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.EqualFold(rec.Header().Get("Access-Control-Allow-Headers"), "X-Shopify-Hmac-Sha256") {
		t.Fatalf("allow headers = %q", rec.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestCompress(t *testing.T) {
	t.Parallel()
	body := strings.Repeat(`{"id":"o-1","status":"pending"}`, 100)
	h := middleware.Compress(flate.BestSpeed)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	req := httptest.NewRequest("GET", "/api/v1/inbox", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Content-Encoding") != "gzip" || rec.Body.Len() >= len(body) {
		t.Fatalf("not compressed: %q %d", rec.Header().Get("Content-Encoding"), rec.Body.Len())
	}
}

func TestHeartbeat(t *testing.T) {
	t.Parallel()
	h := middleware.Heartbeat("/health")(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
