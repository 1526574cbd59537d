// Package module wires the inbox review flow into the API using modkit
package module

import (
	"context"

	modkit "purchaseinbox/internal/modkit"
	"purchaseinbox/internal/modkit/httpkit"
	"purchaseinbox/internal/platform/net/middleware"

	"purchaseinbox/internal/adapters/pubsub"
	adom "purchaseinbox/internal/services/affiliate/domain"
	"purchaseinbox/internal/services/inbox/domain"
	ihttp "purchaseinbox/internal/services/inbox/http"
	irepo "purchaseinbox/internal/services/inbox/repo"
	isvc "purchaseinbox/internal/services/inbox/service"
	srepo "purchaseinbox/internal/services/staging/repo"
)

// Module implements the inbox API module
type Module struct {
	b      modkit.Built
	auth   middleware.AuthPort
	stream ihttp.StreamOptions
	ports  Ports
	svc    isvc.Service
}

// Ports exposes the inbox to other modules
type Ports struct {
	Inbox     domain.ServicePort
	Publisher domain.Publisher
}

// Inject carries the shared broker and the optional affiliate rewriter
type Inject struct {
	Broker   *pubsub.Broker
	Rewriter adom.ServicePort
}

// AffiliateRewriter adapts the affiliate port for product creation
type AffiliateRewriter struct{ Port adom.ServicePort }

// AffiliateURL returns the rewritten url when a config matched
func (a AffiliateRewriter) AffiliateURL(ctx context.Context, raw string) (string, bool) {
	out, err := a.Port.Rewrite(ctx, adom.RewriteInput{URL: raw})
	if err != nil || !out.Matched {
		return "", false
	}
	return out.AffiliatedURL, true
}

// New constructs the inbox module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("inbox"),
		modkit.WithPrefix("/inbox"),
	}, opts...)...)

	var o isvc.Options
	if in, ok := b.Inject.(Inject); ok {
		o.Broker = in.Broker
		if in.Rewriter != nil {
			o.Rewriter = AffiliateRewriter{Port: in.Rewriter}
		}
	}
	if o.Broker == nil {
		o.Broker = pubsub.New(pubsub.Options{Bus: deps.Bus})
	}

	svc := isvc.New(deps.PG, srepo.NewPG(), irepo.NewPG(), o)
	return &Module{
		b:      b,
		auth:   deps.Auth,
		stream: FromConfig(deps.Cfg),
		svc:    svc,
		ports:  Ports{Inbox: svc, Publisher: svc},
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { ihttp.Register(rr, m.svc, m.auth, m.stream) })
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }
