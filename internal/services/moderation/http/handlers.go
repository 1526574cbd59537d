// Package http provides http transport for moderation
package http

import (
	stdhttp "net/http"

	"purchaseinbox/internal/modkit/httpkit"
	"purchaseinbox/internal/services/moderation/domain"
	svc "purchaseinbox/internal/services/moderation/service"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.TextInput](r, "/text", h.text)
	httpkit.PostJSON[domain.ImageInput](r, "/image", h.image)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /moderation/text Moderation text
// @Summary Score a comment for toxicity and spam
// @Description A rejected comment is a normal answer with allowed=false and a reason
// @Tags moderation
// @Accept json
// @Produce json
// @Param payload body domain.TextInput true "Comment"
// @Success 200 {object} domain.TextVerdict "ok"
// @Failure 400 {object} phttp.Envelope "invalid input"
// @Router /moderation/text [post]
func (h *handlers) text(r *stdhttp.Request, in domain.TextInput) (any, error) {
	return h.svc.ModerateText(r.Context(), in)
}

// swagger:route POST /moderation/image Moderation image
// @Summary Score an image url for adult or violent content
// @Tags moderation
// @Accept json
// @Produce json
// @Param payload body domain.ImageInput true "Image"
// @Success 200 {object} domain.ImageVerdict "ok"
// @Failure 400 {object} phttp.Envelope "invalid input"
// @Failure 404 {object} phttp.Envelope "product not found"
// @Router /moderation/image [post]
func (h *handlers) image(r *stdhttp.Request, in domain.ImageInput) (any, error) {
	return h.svc.ModerateImage(r.Context(), in)
}
