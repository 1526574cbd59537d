// Package domain holds the webhook ingestion types
package domain

import (
	"context"

	"purchaseinbox/internal/adapters/commerce"
	sdom "purchaseinbox/internal/services/staging/domain"
)

// Connection is a registered merchant integration
type Connection struct {
	ID             string
	Source         commerce.Source
	ShopDomain     string
	WebhookSecret  string
	APIKey         string
	MerchantUserID string
	StoreName      string
	Active         bool
}

// Delivery is one inbound webhook request
// Body is the exact bytes the signature was computed over
type Delivery struct {
	Source     commerce.Source
	Body       []byte
	Signature  string
	ShopDomain string
	APIKey     string
}

// Result is the webhook response payload
type Result struct {
	Success bool                `json:"success"                   example:"true"`
	Orders  []sdom.StagingOrder `json:"orders"`
	Created int                 `json:"created"                   example:"2"`
}

// ServicePort is the ingestion surface
type ServicePort interface {
	Ingest(ctx context.Context, d Delivery) (Result, error)
}

// Publisher notifies a user that their pending list changed
type Publisher interface {
	Publish(ctx context.Context, userID string) error
}
