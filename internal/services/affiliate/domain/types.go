// Package domain holds affiliate rewriting types and the pure rewrite rule
package domain

import (
	"context"
	"net/url"
	"strings"
)

// Strategy selects how a config rewrites a url
type Strategy string

const (
	// StrategyQueryParam sets ParamName=AffiliateID on the url
	StrategyQueryParam Strategy = "query_param"

	// StrategyWrap replaces the url with WrapTemplate carrying the escaped original
	StrategyWrap Strategy = "wrap"
)

// Config is one affiliate program bound to a domain pattern
type Config struct {
	DomainPattern string   `json:"domain_pattern" yaml:"domain_pattern"`
	Network       string   `json:"network"        yaml:"network"`
	AffiliateID   string   `json:"affiliate_id"   yaml:"affiliate_id"`
	Strategy      Strategy `json:"strategy"       yaml:"strategy"`
	ParamName     string   `json:"param_name"     yaml:"param_name"`
	WrapTemplate  string   `json:"wrap_template"  yaml:"wrap_template"`
	Priority      int      `json:"priority"       yaml:"priority"`
}

// RewriteInput is the affiliate endpoint request
type RewriteInput struct {
	URL string `json:"url" validate:"required,max=2048" example:"https://shop.example.com/p/lamp"`
}

// RewriteOutput is the affiliate endpoint response
type RewriteOutput struct {
	Success       bool   `json:"success"       example:"true"`
	OriginalURL   string `json:"originalUrl"   example:"https://shop.example.com/p/lamp"`
	AffiliatedURL string `json:"affiliatedUrl" example:"https://shop.example.com/p/lamp?tag=inbox-20"`
	Matched       bool   `json:"matched"       example:"true"`
}

// ServicePort is implemented by the affiliate service
type ServicePort interface {
	Rewrite(ctx context.Context, in RewriteInput) (RewriteOutput, error)
}

// placeholders understood by wrap templates
const (
	PlaceholderURL         = "{url}"
	PlaceholderAffiliateID = "{affiliate_id}"
)

// Rewrite applies every config whose pattern occurs in the url host, in order
// an unparsable or unmatched url is returned unchanged with matched=false
func Rewrite(raw string, configs []Config) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return raw, false
	}
	host := strings.ToLower(u.Hostname())

	out, matched := u.String(), false
	for _, c := range configs {
		pat := strings.ToLower(strings.TrimSpace(c.DomainPattern))
		if pat == "" || !strings.Contains(host, pat) {
			continue
		}
		next, ok := apply(out, c)
		if !ok {
			continue
		}
		out, matched = next, true
	}
	if !matched {
		return raw, false
	}
	return out, true
}

func apply(current string, c Config) (string, bool) {
	switch c.Strategy {
	case StrategyWrap:
		if !strings.Contains(c.WrapTemplate, PlaceholderURL) {
			return current, false
		}
		r := strings.NewReplacer(
			PlaceholderURL, url.QueryEscape(current),
			PlaceholderAffiliateID, url.QueryEscape(c.AffiliateID),
		)
		return r.Replace(c.WrapTemplate), true
	case StrategyQueryParam, "":
		if c.ParamName == "" || c.AffiliateID == "" {
			return current, false
		}
		u, err := url.Parse(current)
		if err != nil {
			return current, false
		}
		q := u.Query()
		q.Set(c.ParamName, c.AffiliateID)
		u.RawQuery = q.Encode()
		return u.String(), true
	default:
		return current, false
	}
}
