// Package domain holds identity matcher contracts
package domain

import "context"

// LoginEvent is emitted by the identity provider after a sign in or sign up
type LoginEvent struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// SyncResult reports how many staging orders were bound to the caller
type SyncResult struct {
	Matched int `json:"matched" example:"2"`
}

// MatcherPort binds ownerless staging orders to a user
type MatcherPort interface {
	Match(ctx context.Context, userID, email string) (int, error)
}

// ServicePort is implemented by the identity service
type ServicePort interface {
	MatcherPort
	Sync(ctx context.Context, userID, email string) SyncResult
	HandleLogin(ctx context.Context, ev LoginEvent) SyncResult
}

// Publisher announces that a user's inbox changed
type Publisher interface {
	Publish(ctx context.Context, userID string) error
}
