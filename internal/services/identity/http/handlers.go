// Package http provides http transport for identity
package http

import (
	stdhttp "net/http"

	"purchaseinbox/internal/modkit/httpkit"
	"purchaseinbox/internal/platform/net/middleware"
	svc "purchaseinbox/internal/services/identity/service"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service, auth middleware.AuthPort) {
	h := &handlers{svc: s}
	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.Post(pr, "/sync", h.sync)
	})
}

type handlers struct{ svc svc.Service }

// swagger:route POST /identity/sync Identity sync
// @Summary Claim staging orders for the caller's verified email
// @Tags identity
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.SyncResult "ok"
// @Failure 401 {object} httpkit.Envelope "missing token or unverified email"
// @Router /identity/sync [post]
func (h *handlers) sync(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	email, err := httpkit.Email(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Sync(r.Context(), uid, email), nil
}
