// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	perrs "purchaseinbox/internal/platform/errors"
)

// TokenFunc parses a bearer token and returns the user id and verified email
// email is empty when the token carries no verified address
type TokenFunc func(token string) (userID string, email string, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse extracts the user id and email from an Authorization Bearer token
// returns unauthorized when the header is missing, malformed, or the parser returns an error
func (p *Port) Parse(r *http.Request) (string, string, error) {
	authz := r.Header.Get("Authorization")
	// normalize whitespace around the whole header
	s := strings.TrimSpace(authz)
	if s == "" {
		return "", "", perrs.Unauthorizedf("missing bearer token")
	}
	const prefix = "bearer "
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", "", perrs.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(s[len(prefix):])
	if raw == "" {
		return "", "", perrs.Unauthorizedf("missing bearer token")
	}

	if p.parse == nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}

	uid, email, err := p.parse(raw)
	if err != nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	return uid, email, nil
}

// Claims is the bearer token payload issued by the identity provider
type Claims struct {
	jwt.RegisteredClaims
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
}

// HS256 returns a TokenFunc that validates HS256 tokens signed with secret
// the subject becomes the user id; email is only surfaced when verified
func HS256(secret []byte) TokenFunc {
	return func(token string) (string, string, error) {
		if len(secret) == 0 {
			return "", "", errors.New("no signing secret configured")
		}
		var c Claims
		tok, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil {
			return "", "", err
		}
		if !tok.Valid || c.Subject == "" {
			return "", "", errors.New("invalid token")
		}
		if !c.EmailVerified {
			return c.Subject, "", nil
		}
		return c.Subject, strings.ToLower(strings.TrimSpace(c.Email)), nil
	}
}
