// Package http provides webhook transport for ingestion
package http

import (
	"io"
	stdhttp "net/http"
	"strings"

	"purchaseinbox/internal/adapters/commerce"
	"purchaseinbox/internal/modkit/httpkit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/services/ingest/domain"
	svc "purchaseinbox/internal/services/ingest/service"
)

// DefaultMaxBody caps a webhook body
const DefaultMaxBody int64 = 1 << 20

// Register mounts one route per source plus its preflight
func Register(r httpkit.Router, s svc.Service, maxBody int64) {
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}
	h := &handlers{svc: s, maxBody: maxBody}
	for path, fn := range map[string]func(*stdhttp.Request) (any, error){
		"/shopify":     h.shopify,
		"/woocommerce": h.woocommerce,
		"/generic":     h.generic,
	} {
		httpkit.Post(r, path, fn)
		r.Options(path, httpkit.Call(preflight))
	}
}

type handlers struct {
	svc     svc.Service
	maxBody int64
}

func preflight(*stdhttp.Request) (any, error) { return nil, nil }

// body returns the exact request bytes, signatures are computed over them
func (h *handlers) body(r *stdhttp.Request) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r.Body, h.maxBody+1))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "read webhook body")
	}
	if int64(len(b)) > h.maxBody {
		return nil, perr.Validationf("webhook body exceeds %d bytes", h.maxBody)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, perr.Validationf("empty webhook body")
	}
	return b, nil
}

// swagger:route POST /webhooks/shopify Webhooks shopify
// @Summary Shopify orders/create webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Shopify-Hmac-Sha256 header string false "base64 HMAC-SHA256 of the body"
// @Param X-Shopify-Shop-Domain header string true "shop domain"
// @Success 200 {object} domain.Result "ok"
// @Failure 400 {object} phttp.Envelope "malformed payload"
// @Failure 401 {object} phttp.Envelope "bad signature"
// @Failure 404 {object} phttp.Envelope "shop not registered"
// @Router /webhooks/shopify [post]
func (h *handlers) shopify(r *stdhttp.Request) (any, error) {
	b, err := h.body(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Ingest(r.Context(), domain.Delivery{
		Source:     commerce.SourceShopify,
		Body:       b,
		Signature:  r.Header.Get("X-Shopify-Hmac-Sha256"),
		ShopDomain: r.Header.Get("X-Shopify-Shop-Domain"),
	})
}

// swagger:route POST /webhooks/woocommerce Webhooks woocommerce
// @Summary WooCommerce order webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-WC-Webhook-Signature header string false "base64 HMAC-SHA256 of the body"
// @Param X-WC-Webhook-Source header string false "store url"
// @Param X-Api-Key header string false "shared merchant key"
// @Success 200 {object} domain.Result "ok"
// @Failure 400 {object} phttp.Envelope "malformed payload"
// @Failure 401 {object} phttp.Envelope "bad signature or key"
// @Failure 404 {object} phttp.Envelope "store not registered"
// @Router /webhooks/woocommerce [post]
func (h *handlers) woocommerce(r *stdhttp.Request) (any, error) {
	b, err := h.body(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Ingest(r.Context(), domain.Delivery{
		Source:     commerce.SourceWooCommerce,
		Body:       b,
		Signature:  r.Header.Get("X-WC-Webhook-Signature"),
		ShopDomain: r.Header.Get("X-WC-Webhook-Source"),
		APIKey:     r.Header.Get("X-Api-Key"),
	})
}

// swagger:route POST /webhooks/generic Webhooks generic
// @Summary Merchant API order push
// @Description Authenticated by X-Api-Key or an api_key body field
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Api-Key header string false "merchant key"
// @Param payload body commerce.GenericOrder true "Order"
// @Success 200 {object} domain.Result "ok"
// @Failure 400 {object} phttp.Envelope "malformed payload"
// @Failure 401 {object} phttp.Envelope "bad key"
// @Router /webhooks/generic [post]
func (h *handlers) generic(r *stdhttp.Request) (any, error) {
	b, err := h.body(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Ingest(r.Context(), domain.Delivery{
		Source: commerce.SourceGeneric,
		Body:   b,
		APIKey: r.Header.Get("X-Api-Key"),
	})
}
