// Package domain holds inbox review types and ports
package domain

import (
	"context"

	"purchaseinbox/internal/adapters/pubsub"
	sdom "purchaseinbox/internal/services/staging/domain"
)

// Decision is the result of accepting or rejecting one order
// Changed is false when the order was already resolved
type Decision struct {
	Order     sdom.StagingOrder `json:"order"`
	Changed   bool              `json:"changed"`
	ProductID string            `json:"product_id,omitempty"`
}

// Product is the row materialized from an accepted order
type Product struct {
	ID             string
	UserID         string
	StagingOrderID string
	Snapshot       sdom.Snapshot
	AffiliateURL   *string
}

// ServicePort is implemented by the inbox service
type ServicePort interface {
	ListPending(ctx context.Context, userID string) ([]sdom.StagingOrder, error)
	Accept(ctx context.Context, userID, id string) (Decision, error)
	Reject(ctx context.Context, userID, id string) (Decision, error)
	Subscriber
}

// Publisher announces that a user's pending list changed
type Publisher interface {
	Publish(ctx context.Context, userID string) error
}

// Subscriber streams change events for one user, satisfied by pubsub.Broker
type Subscriber interface {
	Subscribe(userID string) (<-chan pubsub.Changed, func())
}

// Rewriter turns a store url into an affiliate link
type Rewriter interface {
	AffiliateURL(ctx context.Context, raw string) (string, bool)
}
