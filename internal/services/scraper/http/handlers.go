// Package http provides http transport for the scraper
package http

import (
	stdhttp "net/http"

	"purchaseinbox/internal/modkit/httpkit"
	"purchaseinbox/internal/services/scraper/domain"
	svc "purchaseinbox/internal/services/scraper/service"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.ExtractInput](r, "/", h.extract)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /scraper Scraper extract
// @Summary Extract product metadata from a merchant page
// @Description Blocked marketplaces answer with blocked=true and are never fetched
// @Tags scraper
// @Accept json
// @Produce json
// @Param payload body domain.ExtractInput true "Page"
// @Success 200 {object} domain.ProductMetadata "ok"
// @Failure 400 {object} phttp.Envelope "invalid url"
// @Failure 503 {object} phttp.Envelope "page unavailable"
// @Router /scraper [post]
func (h *handlers) extract(r *stdhttp.Request, in domain.ExtractInput) (any, error) {
	return h.svc.Extract(r.Context(), in.URL)
}
