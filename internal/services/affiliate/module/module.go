// Package module wires the affiliate rewriter into the API using modkit
package module

import (
	modkit "purchaseinbox/internal/modkit"
	"purchaseinbox/internal/modkit/httpkit"

	"purchaseinbox/internal/services/affiliate/domain"
	ahttp "purchaseinbox/internal/services/affiliate/http"
	arepo "purchaseinbox/internal/services/affiliate/repo"
	asvc "purchaseinbox/internal/services/affiliate/service"
)

// Module implements the affiliate API module
type Module struct {
	b     modkit.Built
	ports Ports
	svc   asvc.Service
}

// Ports exposes the rewriter to other modules
type Ports struct {
	Rewriter domain.ServicePort
}

// New constructs the affiliate module
// a broken seed file is fatal at boot
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("affiliate"),
		modkit.WithPrefix("/affiliate"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	seed, err := asvc.LoadSeed(cfg.SeedFile)
	if err != nil {
		panic(err)
	}

	svc := asvc.New(deps.PG, arepo.NewPG(), asvc.Options{Seed: seed, CacheTTL: cfg.CacheTTL})
	return &Module{b: b, svc: svc, ports: Ports{Rewriter: svc}}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { ahttp.Register(rr, m.svc) })
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }
