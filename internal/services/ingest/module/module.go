// Package module wires webhook ingestion into the API using modkit
package module

import (
	"purchaseinbox/internal/adapters/commerce"
	modkit "purchaseinbox/internal/modkit"
	"purchaseinbox/internal/modkit/httpkit"

	"purchaseinbox/internal/services/ingest/domain"
	ihttp "purchaseinbox/internal/services/ingest/http"
	irepo "purchaseinbox/internal/services/ingest/repo"
	isvc "purchaseinbox/internal/services/ingest/service"
	srepo "purchaseinbox/internal/services/staging/repo"
	ssvc "purchaseinbox/internal/services/staging/service"
)

// Module implements the webhook API module
type Module struct {
	b       modkit.Built
	maxBody int64
	ports   Ports
	svc     isvc.Service
}

// Ports exposes ingestion to other modules
type Ports struct {
	Ingest domain.ServicePort
}

// Inject lets the host share collaborators
// Publisher is normally the inbox broker
type Inject struct {
	Publisher domain.Publisher
	Registry  *commerce.Registry
}

// New constructs the ingest module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("ingest"),
		modkit.WithPrefix("/webhooks"),
	}, opts...)...)

	inj, _ := b.Inject.(Inject)
	cfg := FromConfig(deps.Cfg)

	staging := ssvc.New(deps.PG, srepo.NewPG())
	svc := isvc.New(deps.PG, irepo.NewPG(), staging, isvc.Options{
		Registry:  inj.Registry,
		Publisher: inj.Publisher,
		Secrets:   cfg.Secrets,
	})
	return &Module{b: b, maxBody: cfg.MaxBody, svc: svc, ports: Ports{Ingest: svc}}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { ihttp.Register(rr, m.svc, m.maxBody) })
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }
