// Package net carries request scoped values: the request id chi assigns and the authenticated caller
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyUserID ctxKey = "user_id"
	keyEmail  ctxKey = "email"
)

// WithUser annotates context with the authenticated user id and email claim
func WithUser(ctx context.Context, userID, email string) context.Context {
	if userID != "" {
		ctx = context.WithValue(ctx, keyUserID, userID)
	}
	if email != "" {
		ctx = context.WithValue(ctx, keyEmail, email)
	}
	return ctx
}

// RequestID returns the id middleware.RequestID stored, empty outside a request
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// UserID returns the user id on the context if present
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(keyUserID).(string); ok {
		return v
	}
	return ""
}

// Email returns the verified email claim on the context if present
func Email(ctx context.Context) string {
	if v, ok := ctx.Value(keyEmail).(string); ok {
		return v
	}
	return ""
}
