package commerce

import (
	"encoding/json"
	"strconv"
	"strings"

	"purchaseinbox/internal/core/normalize"
	perr "purchaseinbox/internal/platform/errors"
)

// Generic adapts the documented merchant API order shape
type Generic struct{}

// GenericOrder is the body accepted by the generic webhook
type GenericOrder struct {
	APIKey        string        `json:"api_key,omitempty"`
	OrderID       ID            `json:"order_id"`
	CustomerEmail string        `json:"customer_email"`
	Currency      string        `json:"currency,omitempty"`
	Items         []GenericItem `json:"items"`
}

// GenericItem is one item of a GenericOrder
type GenericItem struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Category      string   `json:"category,omitempty"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Quantity      int      `json:"quantity,omitempty"`
}

// Source implements Adapter
func (Generic) Source() Source { return SourceGeneric }

// Adapt implements Adapter
func (Generic) Adapt(payload []byte, meta Meta) ([]RawOrder, error) {
	if err := validatePayload(SourceGeneric, payload); err != nil {
		return nil, err
	}
	var o GenericOrder
	if err := json.Unmarshal(payload, &o); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "malformed generic payload")
	}
	email := normalize.Email(o.CustomerEmail)
	if email == "" || o.OrderID == "" {
		return nil, perr.Validationf("generic payload: order_id and customer_email are required")
	}

	out := make([]RawOrder, 0, len(o.Items))
	for i, it := range o.Items {
		out = append(out, RawOrder{
			Source:        SourceGeneric,
			SourceOrderID: string(o.OrderID) + "-" + strconv.Itoa(i),
			CustomerEmail: email,
			Item: LineItem{
				Name:          strings.TrimSpace(it.Name),
				Description:   it.Description,
				Brand:         it.Brand,
				Category:      it.Category,
				Price:         it.Price,
				OriginalPrice: it.OriginalPrice,
				Currency:      strings.ToUpper(firstNonEmpty(it.Currency, o.Currency, "USD")),
				ImageURL:      it.ImageURL,
				Quantity:      max(it.Quantity, 1),
			},
			StoreDomain: meta.StoreDomain,
			StoreName:   storeName(meta),
			Payload:     json.RawMessage(payload),
		})
	}
	return out, nil
}

// APIKeyFromBody pulls api_key out of a generic body without full validation
func APIKeyFromBody(payload []byte) string {
	var keyed struct {
		APIKey string `json:"api_key"`
	}
	if err := json.Unmarshal(payload, &keyed); err != nil {
		return ""
	}
	return strings.TrimSpace(keyed.APIKey)
}
