// Package service rewrites outbound merchant urls with affiliate parameters
package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"purchaseinbox/internal/modkit/repokit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/logger"
	"purchaseinbox/internal/services/affiliate/domain"
	"purchaseinbox/internal/services/affiliate/repo"

	"gopkg.in/yaml.v3"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Options control service behavior
type Options struct {
	// Seed is used when the store cannot be read
	Seed []domain.Config
	// CacheTTL bounds how long loaded configs are reused, zero disables caching
	CacheTTL time.Duration
}

// Svc implements the affiliate service
type Svc struct {
	Repo repo.Repo
	seed []domain.Config
	ttl  time.Duration
	now  func() time.Time
	log  logger.Logger

	mu       sync.Mutex
	cached   []domain.Config
	cachedAt time.Time
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("affiliate.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("affiliate.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo: binder.Bind(db),
		seed: opt.Seed,
		ttl:  opt.CacheTTL,
		now:  time.Now,
		log:  *logger.Named("affiliate"),
	}
}

// Rewrite applies the active configs to in.URL
func (s *Svc) Rewrite(ctx context.Context, in domain.RewriteInput) (domain.RewriteOutput, error) {
	raw := strings.TrimSpace(in.URL)
	if raw == "" {
		return domain.RewriteOutput{}, perr.WithField(perr.Validationf("url is required"), "url")
	}
	out, matched := domain.Rewrite(raw, s.Configs(ctx))
	return domain.RewriteOutput{
		Success:       true,
		OriginalURL:   raw,
		AffiliatedURL: out,
		Matched:       matched,
	}, nil
}

// Configs returns the active configs, falling back to the seed when the store fails
func (s *Svc) Configs(ctx context.Context) []domain.Config {
	s.mu.Lock()
	if s.ttl > 0 && s.cached != nil && s.now().Sub(s.cachedAt) < s.ttl {
		c := s.cached
		s.mu.Unlock()
		return c
	}
	s.mu.Unlock()

	cfgs, err := s.Repo.ListActive(ctx)
	if err != nil {
		s.log.Warn().Err(err).Int("seed", len(s.seed)).Msg("affiliate configs unavailable, using seed")
		return s.seed
	}
	if cfgs == nil {
		cfgs = []domain.Config{}
	}

	s.mu.Lock()
	s.cached, s.cachedAt = cfgs, s.now()
	s.mu.Unlock()
	return cfgs
}

type seedFile struct {
	Configs []domain.Config `yaml:"configs"`
}

// LoadSeed reads configs from a yaml file, an empty path yields none
func LoadSeed(path string) ([]domain.Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("affiliate: read seed: %w", err)
	}
	return ParseSeed(b)
}

// ParseSeed decodes seed yaml and rejects configs that could never apply
func ParseSeed(b []byte) ([]domain.Config, error) {
	var f seedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("affiliate: parse seed: %w", err)
	}
	for i, c := range f.Configs {
		if c.Strategy == "" {
			f.Configs[i].Strategy = domain.StrategyQueryParam
			c.Strategy = domain.StrategyQueryParam
		}
		switch {
		case c.DomainPattern == "":
			return nil, fmt.Errorf("affiliate: seed config %d has no domain_pattern", i)
		case c.Strategy == domain.StrategyQueryParam && c.ParamName == "":
			return nil, fmt.Errorf("affiliate: seed config %d (%s) has no param_name", i, c.DomainPattern)
		case c.Strategy == domain.StrategyWrap && !strings.Contains(c.WrapTemplate, domain.PlaceholderURL):
			return nil, fmt.Errorf("affiliate: seed config %d (%s) wrap_template lacks %s", i, c.DomainPattern, domain.PlaceholderURL)
		case c.Strategy != domain.StrategyQueryParam && c.Strategy != domain.StrategyWrap:
			return nil, fmt.Errorf("affiliate: seed config %d has unknown strategy %q", i, c.Strategy)
		}
	}
	return f.Configs, nil
}
