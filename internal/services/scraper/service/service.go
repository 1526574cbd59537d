// Package service extracts product metadata from merchant pages
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"html"
	"net/url"
	"strings"
	"time"

	"purchaseinbox/internal/adapters/commerce"
	"purchaseinbox/internal/core/lexicon"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/logger"
	"purchaseinbox/internal/platform/store"
	"purchaseinbox/internal/services/scraper/domain"

	"github.com/microcosm-cc/bluemonday"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Options control service behavior
type Options struct {
	// KV caches extracted metadata, nil disables caching
	KV       store.KV
	CacheTTL time.Duration
	Lexicon  *lexicon.Lexicon
}

// Svc implements the scraper service
type Svc struct {
	fetch  domain.Fetcher
	kv     store.KV
	ttl    time.Duration
	lx     *lexicon.Lexicon
	policy *bluemonday.Policy
	log    logger.Logger
}

// New constructs the service
func New(f domain.Fetcher, opt Options) *Svc {
	if f == nil {
		panic("scraper.Service requires a non nil Fetcher")
	}
	lx := opt.Lexicon
	if lx == nil {
		lx = lexicon.MustDefault()
	}
	return &Svc{
		fetch:  f,
		kv:     opt.KV,
		ttl:    opt.CacheTTL,
		lx:     lx,
		policy: bluemonday.StrictPolicy(),
		log:    *logger.Named("scraper"),
	}
}

// Extract fetches rawURL and returns what the page says about its product
// blocked marketplaces are answered without a fetch
func (s *Svc) Extract(ctx context.Context, rawURL string) (domain.ProductMetadata, error) {
	raw := strings.TrimSpace(rawURL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return domain.ProductMetadata{}, perr.WithField(perr.Validationf("url must be an absolute http(s) url"), "url")
	}

	host := u.Hostname()
	if s.lx.Blocked(host) {
		s.log.Debug().Str("host", host).Msg("blocked marketplace, skipping fetch")
		return domain.ProductMetadata{
			Currency:  s.lx.Symbol(""),
			StoreName: commerce.GuessStoreName(host),
			SourceURL: raw,
			Blocked:   true,
		}, nil
	}

	key := cacheKey(raw)
	if md, ok := s.cached(ctx, key); ok {
		return md, nil
	}

	pg, err := s.fetch.Get(ctx, raw)
	if err != nil {
		return domain.ProductMetadata{}, err
	}
	if pg.Truncated {
		s.log.Debug().Str("host", host).Msg("page truncated at body cap")
	}

	md, src, err := s.parse(pg.Body, pg.URL, raw)
	if err != nil {
		return domain.ProductMetadata{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "scraper: unreadable page")
	}
	logger.C(ctx).Debug().
		Str("host", host).
		Str("price_source", string(src)).
		Bool("empty", md.Empty()).
		Msg("extracted")

	s.store(ctx, key, md)
	return md, nil
}

// parse applies the field cascades to one document
func (s *Svc) parse(body []byte, finalURL, sourceURL string) (domain.ProductMetadata, domain.PriceSource, error) {
	p, err := parsePage(body)
	if err != nil {
		return domain.ProductMetadata{}, domain.PriceNone, err
	}

	base, _ := url.Parse(firstNonEmpty(finalURL, sourceURL))
	price, code, src := p.price()

	name := p.first("og:site_name")
	if name == "" && base != nil {
		name = commerce.GuessStoreName(base.Hostname())
	}

	return domain.ProductMetadata{
		Title:       s.clean(firstNonEmpty(p.first("og:title", "twitter:title"), p.title)),
		Description: s.clean(p.first("og:description", "twitter:description", "description")),
		Image:       resolve(base, firstNonEmpty(p.first("og:image", "og:image:url", "twitter:image"), p.imageSrc)),
		Price:       price,
		Currency:    s.lx.Symbol(code),
		StoreName:   s.clean(name),
		SourceURL:   sourceURL,
		Success:     true,
	}, src, nil
}

// clean strips markup and entities, then collapses whitespace
func (s *Svc) clean(v string) string {
	if v == "" {
		return ""
	}
	return collapse(html.UnescapeString(s.policy.Sanitize(v)))
}

func cacheKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "scrape:" + hex.EncodeToString(sum[:])
}

func (s *Svc) cached(ctx context.Context, key string) (domain.ProductMetadata, bool) {
	if s.kv == nil {
		return domain.ProductMetadata{}, false
	}
	b, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("scrape cache read failed")
		return domain.ProductMetadata{}, false
	}
	if !ok {
		return domain.ProductMetadata{}, false
	}
	var md domain.ProductMetadata
	if err := json.Unmarshal(b, &md); err != nil {
		s.log.Warn().Err(err).Msg("scrape cache entry unreadable")
		return domain.ProductMetadata{}, false
	}
	return md, true
}

func (s *Svc) store(ctx context.Context, key string, md domain.ProductMetadata) {
	if s.kv == nil || s.ttl <= 0 {
		return
	}
	b, err := json.Marshal(md)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, key, b, s.ttl); err != nil {
		s.log.Warn().Err(err).Msg("scrape cache write failed")
	}
}
