// Package http provides http transport for the inbox
package http

import (
	stdhttp "net/http"
	"time"

	"purchaseinbox/internal/modkit/httpkit"
	"purchaseinbox/internal/platform/net/middleware"
	svc "purchaseinbox/internal/services/inbox/service"

	"github.com/go-chi/chi/v5"
)

// StreamOptions bound one server sent events connection
type StreamOptions struct {
	Heartbeat time.Duration
	// MaxDuration ends the stream before the request timeout, clients reconnect
	MaxDuration time.Duration
	Retry       time.Duration
}

// Register mounts the router, every route needs a bearer token
func Register(r httpkit.Router, s svc.Service, auth middleware.AuthPort, so StreamOptions) {
	h := &handlers{svc: s, stream: so.withDefaults()}
	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.Get(pr, "/", h.list)
		pr.Get("/stream", h.streamPending)
		httpkit.Post(pr, "/{id}/accept", h.accept)
		httpkit.Post(pr, "/{id}/reject", h.reject)
	})
}

type handlers struct {
	svc    svc.Service
	stream StreamOptions
}

// swagger:route GET /inbox Inbox list
// @Summary List pending orders of the caller
// @Tags inbox
// @Security BearerAuth
// @Produce json
// @Success 200 {array} sdom.StagingOrder "ok"
// @Failure 401 {object} phttp.Envelope "unauthorized"
// @Router /inbox [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.ListPending(r.Context(), uid)
}

// swagger:route POST /inbox/{id}/accept Inbox accept
// @Summary Accept a pending order and create its product
// @Description Accepting an already resolved order succeeds with changed=false
// @Tags inbox
// @Security BearerAuth
// @Produce json
// @Param id path string true "Staging order id"
// @Success 200 {object} domain.Decision "ok"
// @Failure 404 {object} phttp.Envelope "not found"
// @Router /inbox/{id}/accept [post]
func (h *handlers) accept(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Accept(r.Context(), uid, chi.URLParam(r, "id"))
}

// swagger:route POST /inbox/{id}/reject Inbox reject
// @Summary Reject a pending order
// @Tags inbox
// @Security BearerAuth
// @Produce json
// @Param id path string true "Staging order id"
// @Success 200 {object} domain.Decision "ok"
// @Failure 404 {object} phttp.Envelope "not found"
// @Router /inbox/{id}/reject [post]
func (h *handlers) reject(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Reject(r.Context(), uid, chi.URLParam(r, "id"))
}
