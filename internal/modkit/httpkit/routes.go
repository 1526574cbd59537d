package httpkit

import (
	"net/http"

	"purchaseinbox/internal/platform/net/middleware"
)

// MountAPIV1 mounts routes under /api/v1 behind mw
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/v1", func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// Protected mounts fn's routes behind bearer auth, siblings stay public
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}
