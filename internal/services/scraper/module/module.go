// Package module wires the product extractor into the API using modkit
package module

import (
	modkit "purchaseinbox/internal/modkit"
	"purchaseinbox/internal/modkit/httpkit"

	"purchaseinbox/internal/adapters/fetch"
	"purchaseinbox/internal/core/lexicon"
	"purchaseinbox/internal/services/scraper/domain"
	shttp "purchaseinbox/internal/services/scraper/http"
	ssvc "purchaseinbox/internal/services/scraper/service"
)

// Module implements the scraper API module
type Module struct {
	b     modkit.Built
	ports Ports
	svc   ssvc.Service
}

// Ports exposes the extractor to other modules
type Ports struct {
	Extractor domain.ServicePort
}

// Inject lets tests and callers swap the page fetcher
type Inject struct {
	Fetcher domain.Fetcher
}

// New constructs the scraper module
// Redis is used as a cache when the store has it
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("scraper"),
		modkit.WithPrefix("/scraper"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	lx := lexicon.MustDefault()

	var f domain.Fetcher
	if in, ok := b.Inject.(Inject); ok && in.Fetcher != nil {
		f = in.Fetcher
	} else {
		f = fetch.New(fetch.Options{Timeout: cfg.Timeout, MaxBytes: cfg.MaxBytes, UserAgents: lx.UserAgents})
	}

	svc := ssvc.New(f, ssvc.Options{KV: deps.KV, CacheTTL: cfg.CacheTTL, Lexicon: lx})
	return &Module{b: b, svc: svc, ports: Ports{Extractor: svc}}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { shttp.Register(rr, m.svc) })
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }
