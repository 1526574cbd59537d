// Package modkit declares api modules: options resolve to a Built, Built mounts the routes
package modkit

import "purchaseinbox/internal/modkit/module"

// Module is what the api host mounts
type Module = module.Module
