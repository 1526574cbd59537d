package modkit

import (
	"net/http"
	"strings"

	"purchaseinbox/internal/modkit/httpkit"
)

// Built is what a module's options resolve to
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Inject any
}

// Build applies opts in order, later options win
// the prefix is normalized to one leading slash and no trailing slash
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Prefix = "/" + strings.Trim(strings.TrimSpace(b.Prefix), "/")
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// Mount registers routes under Prefix with the module middleware applied
func (b Built) Mount(r httpkit.Router, routes func(httpkit.Router)) {
	r.Route(b.Prefix, func(sub httpkit.Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		routes(sub)
	})
}
