// Package module mounts health, readiness and build info for the inbox api
package module

import (
	"time"

	"purchaseinbox/internal/core/lexicon"
	modkit "purchaseinbox/internal/modkit"
	"purchaseinbox/internal/modkit/httpkit"

	metahttp "purchaseinbox/internal/services/api/meta/http"
)

// ServiceName is reported by health, version and service endpoints
const ServiceName = "inbox-api"

// Module serves the meta routes, it exposes no ports
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs the meta module, uptime counts from here
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	return &Module{b: b, deps: metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   time.Now(),
		Lexicon:     lexicon.MustDefault(),
		Backends:    []metahttp.Backend{
			{Name: "pg", Required: true, Conn: deps.PG},
			{Name: "ch", Conn: deps.CH},
			{Name: "nats", Conn: deps.Bus},
			{Name: "redis", Conn: deps.KV},
		},
	}}
}

// MountRoutes mounts /health, /ready, /version, /service and /lexicon under the prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Ports implements modkit.Module
func (m *Module) Ports() any { return nil }

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }
