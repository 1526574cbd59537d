// Package http serves liveness, readiness and build info
package http

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"purchaseinbox/internal/core/lexicon"
	"purchaseinbox/internal/core/version"
	"purchaseinbox/internal/modkit/httpkit"
)

const pingTimeout = 2 * time.Second

// Pinger is any backend client with a health check
type Pinger interface {
	Ping(context.Context) error
}

// Backend is one readiness check, a nil Conn is reported as skipped
// and a Conn without Ping as unknown
type Backend struct {
	Name     string
	Required bool
	Conn     any
}

// Deps are what the meta routes report on
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Lexicon     *lexicon.Lexicon
	Backends    []Backend
}

// Register mounts /health, /ready, /version, /service and /lexicon
func Register(r httpkit.Router, d Deps) {
	httpkit.Get(r, "/health", d.health)
	httpkit.Get(r, "/ready", d.ready)
	httpkit.Get(r, "/version", d.version)
	httpkit.Get(r, "/service", d.service)
	httpkit.Get(r, "/lexicon", d.lexicon)
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// HealthResponse says the process is serving
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"inbox-api"`
	Started string `json:"started" example:"2026-10-01T09:00:00Z"`
	Now     string `json:"now"     example:"2026-10-01T09:05:00Z"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (d Deps) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: d.ServiceName, Started: stamp(d.StartedAt), Now: stamp(time.Now())}, nil
}

// Check status values
const (
	CheckOK      = "ok"
	CheckFail    = "fail"
	CheckSkipped = "skipped"
	CheckUnknown = "unknown"
)

// ReadyCheck is one backend's result
type ReadyCheck struct {
	Name   string `json:"name"            example:"pg"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse is ok, degraded when a required backend is not confirmed,
// or fail when any ping errors
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-01T09:05:00Z"`
}

// @Summary Readiness with per backend checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (d Deps) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	checks := make([]ReadyCheck, len(d.Backends))
	var g errgroup.Group
	for i, b := range d.Backends {
		g.Go(func() error {
			checks[i] = ping(ctx, b)
			return nil
		})
	}
	_ = g.Wait()

	status := "ok"
	for i, c := range checks {
		switch {
		case c.Status == CheckFail:
			status = "fail"
		case d.Backends[i].Required && c.Status != CheckOK && status == "ok":
			status = "degraded"
		}
	}
	return ReadyResponse{Status: status, Checks: checks, Now: stamp(time.Now())}, nil
}

func ping(ctx context.Context, b Backend) ReadyCheck {
	out := ReadyCheck{Name: b.Name, Status: CheckSkipped}
	if b.Conn == nil {
		return out
	}
	p, ok := b.Conn.(Pinger)
	if !ok {
		out.Status = CheckUnknown
		return out
	}
	if err := p.Ping(ctx); err != nil {
		out.Status, out.Error = CheckFail, err.Error()
		return out
	}
	out.Status = CheckOK
	return out
}

// @Summary Build info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (d Deps) version(*http.Request) (any, error) {
	return version.Info(d.ServiceName), nil
}

// ServiceResponse is the process uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"inbox-api"`
	Started string `json:"started" example:"2026-10-01T09:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// @Summary Service uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (d Deps) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    d.ServiceName,
		Started: stamp(d.StartedAt),
		Uptime:  int64(time.Since(d.StartedAt).Seconds()),
	}, nil
}

// LexiconResponse counts the embedded moderation and scraper lists
type LexiconResponse struct {
	Version        int               `json:"version"         example:"1"`
	Lemmas         int               `json:"lemmas"          example:"42"`
	PromoKeywords  int               `json:"promo_keywords"  example:"12"`
	ImageKeywords  int               `json:"image_keywords"  example:"8"`
	BlockedDomains int               `json:"blocked_domains" example:"9"`
	Build          version.BuildInfo `json:"build"`
}

// @Summary Loaded word lists
// @Tags Meta
// @Produce json
// @Success 200 {object} LexiconResponse
// @Router /meta/lexicon [get]
func (d Deps) lexicon(*http.Request) (any, error) {
	out := LexiconResponse{Build: version.Info(d.ServiceName)}
	if lx := d.Lexicon; lx != nil {
		out.Version = lx.Version
		out.Lemmas = len(lx.Lemmas)
		out.PromoKeywords = len(lx.PromoKeywords)
		out.ImageKeywords = len(lx.ImageKeywords)
		out.BlockedDomains = len(lx.BlockedDomains)
	}
	return out, nil
}
