// Package version reports build metadata stamped at link time
package version

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Set via -ldflags "-X 'purchaseinbox/internal/core/version.version=v0.3.0'
// -X 'purchaseinbox/internal/core/version.commit=abcd' -X 'purchaseinbox/internal/core/version.date=2026-10-01'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns build information for the named service binary
func Info(service string) BuildInfo {
	if service == "" {
		service = "inbox-api"
	}
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}
