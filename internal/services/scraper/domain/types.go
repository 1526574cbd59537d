// Package domain holds product extraction types
package domain

import (
	"context"

	"purchaseinbox/internal/adapters/fetch"
)

// ExtractInput is the scraper endpoint request
type ExtractInput struct {
	URL string `json:"url" validate:"required,max=2048" example:"https://lamp.example/products/desk-lamp"`
}

// ProductMetadata is the best effort view of a product page
// a zero Price means the price was not found
type ProductMetadata struct {
	Title       string  `json:"title"               example:"Desk Lamp"`
	Description string  `json:"description"         example:"A warm brass lamp"`
	Image       string  `json:"image"               example:"https://lamp.example/img/lamp.jpg"`
	Price       float64 `json:"price"               example:"39.99"`
	Currency    string  `json:"currency"            example:"$"`
	StoreName   string  `json:"storeName"           example:"Lamp Co"`
	SourceURL   string  `json:"sourceUrl"           example:"https://lamp.example/products/desk-lamp"`
	Success     bool    `json:"success"             example:"true"`
	Blocked     bool    `json:"blocked,omitempty"`
}

// Empty reports whether nothing usable was found, callers should ask for manual entry
func (m ProductMetadata) Empty() bool {
	return m.Title == "" && m.Image == "" && m.Price == 0
}

// PriceSource names the cascade tier that produced a price
type PriceSource string

const (
	PriceNone      PriceSource = ""
	PriceJSONLD    PriceSource = "jsonld"
	PriceMeta      PriceSource = "meta"
	PriceMicrodata PriceSource = "microdata"
	PriceLabel     PriceSource = "label"
)

// ServicePort is implemented by the scraper service
type ServicePort interface {
	Extract(ctx context.Context, rawURL string) (ProductMetadata, error)
}

// Fetcher retrieves a page, satisfied by fetch.Client
type Fetcher interface {
	Get(ctx context.Context, url string) (fetch.Page, error)
}
