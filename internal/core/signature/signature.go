// Package signature verifies webhook payload signatures
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	perr "purchaseinbox/internal/platform/errors"
)

// ErrSkipped marks a request that carried no signature header
// callers treat it as success and log it
var ErrSkipped = errors.New("signature: header absent, verification skipped")

// Sign returns base64(HMAC-SHA256(secret, body))
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether header is the signature of body under secret
// the comparison is constant time
func Verify(body []byte, header, secret string) bool {
	header = strings.TrimSpace(header)
	if header == "" || secret == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(body, secret)), []byte(header))
}

// Check applies the webhook policy around Verify
//   - no header: ErrSkipped
//   - header with no secret configured: unauthorized
//   - mismatch: unauthorized
func Check(body []byte, header, secret string) error {
	if strings.TrimSpace(header) == "" {
		return ErrSkipped
	}
	if secret == "" {
		return perr.Unauthorizedf("signature present but no secret is configured for this source")
	}
	if !Verify(body, header, secret) {
		return perr.Unauthorizedf("invalid signature")
	}
	return nil
}

// Skipped reports whether err is the skipped marker
func Skipped(err error) bool { return errors.Is(err, ErrSkipped) }
