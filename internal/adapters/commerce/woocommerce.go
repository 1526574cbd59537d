package commerce

import (
	"encoding/json"
	"strings"

	"purchaseinbox/internal/core/normalize"
	perr "purchaseinbox/internal/platform/errors"
)

// WooCommerce adapts order.created webhook payloads
type WooCommerce struct{}

type wooOrder struct {
	ID       ID     `json:"id"`
	Currency string `json:"currency"`
	Billing  *struct {
		Email string `json:"email"`
	} `json:"billing"`
	LineItems []wooLineItem `json:"line_items"`
}

type wooLineItem struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    Amount `json:"price"`
	Total    Amount `json:"total"`
	Image    *image `json:"image"`
}

// Source implements Adapter
func (WooCommerce) Source() Source { return SourceWooCommerce }

// Adapt implements Adapter
func (WooCommerce) Adapt(payload []byte, meta Meta) ([]RawOrder, error) {
	if err := validatePayload(SourceWooCommerce, payload); err != nil {
		return nil, err
	}
	var o wooOrder
	if err := json.Unmarshal(payload, &o); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "malformed woocommerce payload")
	}

	var email string
	if o.Billing != nil {
		email = normalize.Email(o.Billing.Email)
	}
	if email == "" {
		return nil, perr.WithField(perr.Validationf("woocommerce payload: billing email is required"), "billing/email")
	}
	currency := strings.ToUpper(firstNonEmpty(o.Currency, "USD"))

	if o.ID == "" {
		return nil, perr.WithField(perr.Validationf("woocommerce payload: order id is required"), "id")
	}

	out := make([]RawOrder, 0, len(o.LineItems))
	for i, li := range o.LineItems {
		if li.ID == "" {
			return nil, perr.WithField(perr.Validationf("woocommerce payload: line item id is required"), lineField(i, "id"))
		}
		qty := max(li.Quantity, 1)
		// price is the unit price; older stores only send the line total
		price := float64(li.Price)
		if price == 0 && li.Total > 0 {
			price = float64(li.Total) / float64(qty)
		}
		out = append(out, RawOrder{
			Source:        SourceWooCommerce,
			SourceOrderID: string(o.ID) + "-" + string(li.ID),
			CustomerEmail: email,
			Item: LineItem{
				Name:     li.Name,
				Price:    price,
				Currency: currency,
				ImageURL: imageSrc(li.Image),
				Quantity: qty,
			},
			StoreDomain: meta.StoreDomain,
			StoreName:   storeName(meta),
			Payload:     json.RawMessage(payload),
		})
	}
	return out, nil
}
