// Package module is the contract between the api host and its modules
// it sits apart from modkit so modules can export port types without an import cycle
package module

import phttp "purchaseinbox/internal/platform/net/http"

// Module mounts routes and exposes ports for cross module wiring
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
