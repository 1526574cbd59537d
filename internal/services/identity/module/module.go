// Package module wires the identity matcher into the API using modkit
package module

import (
	modkit "purchaseinbox/internal/modkit"
	"purchaseinbox/internal/modkit/httpkit"
	"purchaseinbox/internal/platform/net/middleware"

	"purchaseinbox/internal/services/identity/domain"
	ihttp "purchaseinbox/internal/services/identity/http"
	irepo "purchaseinbox/internal/services/identity/repo"
	isvc "purchaseinbox/internal/services/identity/service"
)

// Module implements the identity API module
type Module struct {
	b     modkit.Built
	auth  middleware.AuthPort
	ports Ports
	svc   *isvc.Svc
}

// Ports exposes the matcher for other modules and workers
type Ports struct {
	Matcher domain.ServicePort
}

// Inject carries optional collaborators
type Inject struct {
	Publisher domain.Publisher
}

// New constructs the identity module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("identity"),
		modkit.WithPrefix("/identity"),
	}, opts...)...)

	in, _ := b.Inject.(Inject)
	svc := isvc.New(deps.PG, irepo.NewPG(), isvc.Options{Publisher: in.Publisher})
	return &Module{b: b, auth: deps.Auth, svc: svc, ports: Ports{Matcher: svc}}
}

// Service returns the matcher service, used by the matcher worker
func (m *Module) Service() *isvc.Svc { return m.svc }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { ihttp.Register(rr, m.svc, m.auth) })
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }
