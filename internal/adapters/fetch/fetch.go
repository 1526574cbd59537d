// Package fetch retrieves product pages for the scraper
package fetch

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/logger"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultMaxBytes = 2 << 20
	fallbackUA      = "Mozilla/5.0 (compatible; purchaseinbox/1.0)"
)

// Options configures the Client
type Options struct {
	Timeout    time.Duration
	MaxBytes   int64
	UserAgents []string
}

// Page is a fetched document
type Page struct {
	URL         string // final url after redirects
	Status      int
	ContentType string
	Body        []byte
	Truncated   bool
}

// Client fetches html with a rotating user agent pool
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	pick func(n int) int
}

// New creates a Client with defaults applied
func New(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = defaultMaxBytes
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("fetch"),
		pick: rand.IntN,
	}
}

// userAgent picks one entry of the pool at random
func (c *Client) userAgent() string {
	if len(c.opts.UserAgents) == 0 {
		return fallbackUA
	}
	return c.opts.UserAgents[c.pick(len(c.opts.UserAgents))]
}

// Get fetches url once, no retries
// network errors and non 2xx responses are ErrorCodeUnavailable
func (c *Client) Get(ctx context.Context, url string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, perr.Wrap(err, perr.ErrorCodeValidation, "fetch: invalid url")
	}
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Page{}, err
		}
		return Page{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "fetch %s failed", req.URL.Host)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("host", req.URL.Host).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("fetch")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return Page{}, perr.Newf(perr.ErrorCodeUnavailable, "fetch %s: upstream status %d", req.URL.Host, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBytes+1))
	if err != nil {
		return Page{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "fetch %s: read body", req.URL.Host)
	}
	truncated := int64(len(body)) > c.opts.MaxBytes
	if truncated {
		body = body[:c.opts.MaxBytes]
	}

	return Page{
		URL:         resp.Request.URL.String(),
		Status:      resp.StatusCode,
		ContentType: strings.ToLower(resp.Header.Get("Content-Type")),
		Body:        body,
		Truncated:   truncated,
	}, nil
}
