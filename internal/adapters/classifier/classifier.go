// Package classifier talks to optional external moderation APIs
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	perr "purchaseinbox/internal/platform/errors"
)

// ErrDisabled is returned by the no-op classifiers
var ErrDisabled = errors.New("classifier: not configured")

// TextVerdict is an external toxicity answer
type TextVerdict struct {
	Toxicity float64
	Allowed  bool
}

// TextClassifier scores free text
type TextClassifier interface {
	ClassifyText(ctx context.Context, text string) (TextVerdict, error)
}

// ImageClassifier returns safe search likelihoods for an image url
type ImageClassifier interface {
	ClassifyImage(ctx context.Context, imageURL string) (SafeSearch, error)
}

// Nop answers ErrDisabled for both capabilities
type Nop struct{}

// ClassifyText implements TextClassifier
func (Nop) ClassifyText(context.Context, string) (TextVerdict, error) { return TextVerdict{}, ErrDisabled }

// ClassifyImage implements ImageClassifier
func (Nop) ClassifyImage(context.Context, string) (SafeSearch, error) { return SafeSearch{}, ErrDisabled }

// Options configures an http classifier
type Options struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	Threshold float64 // text only, toxicity at or above is disallowed
}

func (o *Options) defaults(base string) {
	if o.BaseURL == "" {
		o.BaseURL = base
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.Threshold <= 0 {
		o.Threshold = 0.7
	}
}

// postJSON sends in and decodes the response into out
func postJSON(ctx context.Context, hc *http.Client, endpoint, key string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "classifier: bad endpoint")
	}
	q := u.Query()
	q.Set("key", key)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "classifier %s failed", u.Host)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return perr.Newf(perr.ErrorCodeUnavailable, "classifier %s: status %d", u.Host, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "classifier: decode response")
	}
	return nil
}
