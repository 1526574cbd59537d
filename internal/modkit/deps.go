package modkit

import (
	"purchaseinbox/internal/modkit/repokit"
	"purchaseinbox/internal/platform/config"
	"purchaseinbox/internal/platform/logger"
	"purchaseinbox/internal/platform/net/middleware"
	"purchaseinbox/internal/platform/store"
)

// Deps are the shared dependencies handed to every module
// any backend seam is nil when that backend is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	Bus store.Bus
	KV  store.KV
	// Auth resolves bearer tokens on the inbox and identity routes
	Auth middleware.AuthPort
}
