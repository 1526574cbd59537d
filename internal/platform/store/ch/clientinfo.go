package ch

import (
	"cmp"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"

	"purchaseinbox/internal/core/version"
)

// BuildClientInfo names this process in system.query_log as
// "<name>/<tag> go/<ver> commit/<sha> host/<hostname>"
func BuildClientInfo(name, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	product := func(n, v string) struct{ Name, Version string } {
		return struct{ Name, Version string }{n, strings.TrimSpace(v)}
	}
	return clickhouse.ClientInfo{Products: []struct{ Name, Version string }{
		product(cmp.Or(strings.TrimSpace(name), "purchaseinbox"), tag),
		product("go", runtime.Version()),
		product("commit", commit()),
		product("host", host),
	}}
}

// commit prefers the linker stamp, then the vcs revision go build embeds
func commit() string {
	if c := version.Info("").Commit; c != "none" {
		return c
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}
