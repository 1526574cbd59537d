package commerce

import (
	"encoding/json"
	"strings"

	"purchaseinbox/internal/core/normalize"
	perr "purchaseinbox/internal/platform/errors"
)

// Shopify adapts orders/create webhook payloads
type Shopify struct{}

type shopifyOrder struct {
	ID                  ID      `json:"id"`
	Email               *string `json:"email"`
	ContactEmail        *string `json:"contact_email"`
	Currency            string  `json:"currency"`
	PresentmentCurrency string  `json:"presentment_currency"`
	Customer            *struct {
		Email *string `json:"email"`
	} `json:"customer"`
	LineItems []shopifyLineItem `json:"line_items"`
}

type shopifyLineItem struct {
	ID             ID      `json:"id"`
	Title          string  `json:"title"`
	Name           string  `json:"name"`
	Vendor         string  `json:"vendor"`
	ProductType    string  `json:"product_type"`
	Price          Amount  `json:"price"`
	CompareAtPrice *Amount `json:"compare_at_price"`
	Quantity       int     `json:"quantity"`
	ImageURL       string  `json:"image_url"`
	Image          *image  `json:"image"`
}

// Source implements Adapter
func (Shopify) Source() Source { return SourceShopify }

// Adapt implements Adapter
func (Shopify) Adapt(payload []byte, meta Meta) ([]RawOrder, error) {
	if err := validatePayload(SourceShopify, payload); err != nil {
		return nil, err
	}
	var o shopifyOrder
	if err := json.Unmarshal(payload, &o); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "malformed shopify payload")
	}

	email := normalize.Email(firstNonEmpty(deref(o.Email), deref(o.ContactEmail), customerEmail(o)))
	if email == "" {
		return nil, perr.WithField(perr.Validationf("shopify payload: customer email is required"), "email")
	}
	currency := strings.ToUpper(firstNonEmpty(o.Currency, o.PresentmentCurrency, "USD"))

	if o.ID == "" {
		return nil, perr.WithField(perr.Validationf("shopify payload: order id is required"), "id")
	}

	out := make([]RawOrder, 0, len(o.LineItems))
	for i, li := range o.LineItems {
		if li.ID == "" {
			return nil, perr.WithField(perr.Validationf("shopify payload: line item id is required"), lineField(i, "id"))
		}
		item := LineItem{
			Name:     firstNonEmpty(li.Title, li.Name),
			Brand:    li.Vendor,
			Category: li.ProductType,
			Price:    float64(li.Price),
			Currency: currency,
			ImageURL: firstNonEmpty(li.ImageURL, imageSrc(li.Image)),
			Quantity: max(li.Quantity, 1),
		}
		if li.CompareAtPrice != nil && float64(*li.CompareAtPrice) > item.Price {
			p := float64(*li.CompareAtPrice)
			item.OriginalPrice = &p
		}
		out = append(out, RawOrder{
			Source:        SourceShopify,
			SourceOrderID: string(o.ID) + "-" + string(li.ID),
			CustomerEmail: email,
			Item:          item,
			StoreDomain:   meta.StoreDomain,
			StoreName:     storeName(meta),
			Payload:       json.RawMessage(payload),
		})
	}
	return out, nil
}

func customerEmail(o shopifyOrder) string {
	if o.Customer == nil {
		return ""
	}
	return deref(o.Customer.Email)
}
