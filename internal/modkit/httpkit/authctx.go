package httpkit

import (
	"net/http"

	perrs "purchaseinbox/internal/platform/errors"
	pnet "purchaseinbox/internal/platform/net"
)

// User returns the authenticated user id, routes outside Protected get Unauthorized
func User(r *http.Request) (string, error) {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return uid, nil
}

// Email returns the verified email claim
func Email(r *http.Request) (string, error) {
	email := pnet.Email(r.Context())
	if email == "" {
		return "", perrs.Unauthorizedf("missing verified email claim")
	}
	return email, nil
}
