// Package commerce translates platform order payloads into canonical RawOrders
package commerce

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	perr "purchaseinbox/internal/platform/errors"
)

// Source tags where an order came from
type Source string

const (
	// SourceShopify is a Shopify orders webhook
	SourceShopify Source = "shopify"

	// SourceWooCommerce is a WooCommerce order webhook
	SourceWooCommerce Source = "woocommerce"

	// SourceGeneric is an api key authenticated merchant call
	SourceGeneric Source = "generic"

	// SourceScraper is an order built from a scraped product page
	SourceScraper Source = "scraper"

	// SourceBrowser is an order reported by the browser extension
	SourceBrowser Source = "browser"

	// SourceManual is an order typed in by the user
	SourceManual Source = "manual"

	// SourceDemo is seeded demo data
	SourceDemo Source = "demo"
)

// Valid reports whether s is a known source
func (s Source) Valid() bool {
	switch s {
	case SourceShopify, SourceWooCommerce, SourceGeneric,
		SourceScraper, SourceBrowser, SourceManual, SourceDemo:
		return true
	}
	return false
}

// LineItem is one purchased product
type LineItem struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Category      string   `json:"category,omitempty"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Currency      string   `json:"currency"`
	ImageURL      string   `json:"image_url,omitempty"`
	Quantity      int      `json:"quantity"`
}

// RawOrder is one line item of an order in canonical form
// an order with N line items adapts into N RawOrders
type RawOrder struct {
	Source        Source          `json:"source"`
	SourceOrderID string          `json:"source_order_id"`
	CustomerEmail string          `json:"customer_email"`
	Item          LineItem        `json:"item"`
	StoreDomain   string          `json:"store_domain"`
	StoreName     string          `json:"store_name"`
	Payload       json.RawMessage `json:"-"`
}

// Meta is request level context the payload cannot be trusted for
type Meta struct {
	StoreDomain string
	StoreName   string
}

// StoreURL returns an https url for the store domain
func (o RawOrder) StoreURL() string {
	d := strings.TrimSpace(o.StoreDomain)
	if d == "" || strings.Contains(d, "://") {
		return d
	}
	return "https://" + d
}

// Adapter turns one source payload into RawOrders
type Adapter interface {
	Source() Source
	Adapt(payload []byte, meta Meta) ([]RawOrder, error)
}

// Amount decodes prices sent either as JSON numbers or numeric strings
type Amount float64

// UnmarshalJSON accepts 12.5, "12.50" and null
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*a = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return perr.Validationf("invalid amount %q", s)
	}
	*a = Amount(f)
	return nil
}

// ID decodes identifiers sent as JSON numbers or strings
type ID string

// UnmarshalJSON keeps large integer ids exact
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}
