// Package http provides http transport for affiliate
package http

import (
	stdhttp "net/http"

	"purchaseinbox/internal/modkit/httpkit"
	"purchaseinbox/internal/services/affiliate/domain"
	svc "purchaseinbox/internal/services/affiliate/service"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.RewriteInput](r, "/", h.rewrite)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /affiliate Affiliate rewrite
// @Summary Rewrite a merchant url with affiliate parameters
// @Tags affiliate
// @Accept json
// @Produce json
// @Param payload body domain.RewriteInput true "Rewrite"
// @Success 200 {object} domain.RewriteOutput "ok"
// @Router /affiliate [post]
func (h *handlers) rewrite(r *stdhttp.Request, in domain.RewriteInput) (any, error) {
	return h.svc.Rewrite(r.Context(), in)
}
