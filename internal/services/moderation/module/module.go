// Package module wires the moderation engine into the API using modkit
package module

import (
	modkit "purchaseinbox/internal/modkit"
	"purchaseinbox/internal/modkit/httpkit"

	"purchaseinbox/internal/adapters/classifier"
	"purchaseinbox/internal/services/moderation/domain"
	mhttp "purchaseinbox/internal/services/moderation/http"
	mrepo "purchaseinbox/internal/services/moderation/repo"
	msvc "purchaseinbox/internal/services/moderation/service"
)

// Module implements the moderation API module
type Module struct {
	b     modkit.Built
	ports Ports
	svc   msvc.Service
}

// Ports exposes the moderation engine to other modules
type Ports struct {
	Moderator domain.ServicePort
}

// New constructs the moderation module
// external classifiers are enabled by their api keys
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("moderation"),
		modkit.WithPrefix("/moderation"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	svc := msvc.New(deps.PG, mrepo.NewHybrid(deps.CH), msvc.Options{
		Text:  classifier.NewText(cfg.Text),
		Image: classifier.NewImage(cfg.Image),
	})
	return &Module{b: b, svc: svc, ports: Ports{Moderator: svc}}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { mhttp.Register(rr, m.svc) })
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }
