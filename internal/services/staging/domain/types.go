// Package domain holds staging order types independent of transport or storage
package domain

import (
	"time"

	"purchaseinbox/internal/adapters/commerce"
)

// Status is the review state of a staging order
type Status string

const (
	// StatusPending is awaiting the owner's decision
	StatusPending Status = "pending"

	// StatusAccepted was turned into a product
	StatusAccepted Status = "accepted"

	// StatusRejected was dismissed
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

// Resolved reports whether s is terminal
func (s Status) Resolved() bool { return s == StatusAccepted || s == StatusRejected }

// Snapshot is the product as reported by the source at order time
type Snapshot struct {
	Name          string   `json:"name"                     example:"Desk Lamp"`
	Description   *string  `json:"description,omitempty"`
	Price         float64  `json:"price"                    example:"39.99"`
	OriginalPrice *float64 `json:"original_price,omitempty" example:"59.99"`
	Currency      string   `json:"currency"                 example:"USD"`
	Quantity      int      `json:"quantity"                 example:"1"`
	StoreName     string   `json:"store_name"               example:"Lamp Co"`
	StoreURL      string   `json:"store_url"                example:"https://lamp.example"`
	Images        []string `json:"images"`
	Category      *string  `json:"category,omitempty"`
	Brand         *string  `json:"brand,omitempty"`
}

// StagingOrder is an unconfirmed purchase awaiting review
// Matched is true exactly when UserID is set
type StagingOrder struct {
	ID            string          `json:"id"               example:"01928c7e-9a1b-7cc0-8f3e-0d6f1c1b2a3d"`
	UserID        *string         `json:"user_id,omitempty"`
	CustomerEmail string          `json:"customer_email"   example:"jon@example.com"`
	Source        commerce.Source `json:"source"           example:"shopify"`
	SourceOrderID string          `json:"source_order_id"  example:"820982911946154508-466157049"`
	Product       Snapshot        `json:"product"`
	Status        Status          `json:"status"           example:"pending"`
	Matched       bool            `json:"matched"`
	CreatedAt     time.Time       `json:"created_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
}

// Owner returns the user id or ""
func (o StagingOrder) Owner() string {
	if o.UserID == nil {
		return ""
	}
	return *o.UserID
}

// SnapshotFrom builds a Snapshot from an adapted order
func SnapshotFrom(ro commerce.RawOrder) Snapshot {
	s := Snapshot{
		Name:          ro.Item.Name,
		Price:         ro.Item.Price,
		OriginalPrice: ro.Item.OriginalPrice,
		Currency:      ro.Item.Currency,
		Quantity:      max(ro.Item.Quantity, 1),
		StoreName:     ro.StoreName,
		StoreURL:      ro.StoreURL(),
		Images:        []string{},
		Description:   optional(ro.Item.Description),
		Category:      optional(ro.Item.Category),
		Brand:         optional(ro.Item.Brand),
	}
	if ro.Item.ImageURL != "" {
		s.Images = append(s.Images, ro.Item.ImageURL)
	}
	if s.Currency == "" {
		s.Currency = "USD"
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
