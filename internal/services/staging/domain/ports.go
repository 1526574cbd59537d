package domain

import (
	"context"

	"purchaseinbox/internal/adapters/commerce"
)

// TransitionArgs moves one order out of pending
// Owner, when set, restricts the change to that user's order
type TransitionArgs struct {
	ID    string
	Owner string
	To    Status
}

// InsertResult reports one insert of an order batch
type InsertResult struct {
	Order   StagingOrder `json:"order"`
	Created bool         `json:"created"`
}

// StorePort is the staging order store used by ingest, identity and inbox
type StorePort interface {
	Insert(ctx context.Context, ro commerce.RawOrder) (StagingOrder, bool, error)
	InsertAll(ctx context.Context, ros []commerce.RawOrder) ([]InsertResult, error)
	ListPending(ctx context.Context, userID string) ([]StagingOrder, error)
	Transition(ctx context.Context, in TransitionArgs) (StagingOrder, bool, error)
	ListUnmatched(ctx context.Context, email string) ([]StagingOrder, error)
}
