package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	perr "purchaseinbox/internal/platform/errors"
	pnet "purchaseinbox/internal/platform/net"
)

// RateLimitOptions configures the per client limiter
type RateLimitOptions struct {
	RPS   float64
	Burst int
	// IdleTTL evicts limiters for clients not seen within this window
	IdleTTL time.Duration
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// IPRateLimiter keeps a token bucket per remote ip
type IPRateLimiter struct {
	opt RateLimitOptions
	now func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
	lastGC   time.Time
}

// NewIPRateLimiter returns a limiter; rps <= 0 disables limiting
func NewIPRateLimiter(o RateLimitOptions) *IPRateLimiter {
	if o.Burst <= 0 {
		o.Burst = 1
	}
	if o.IdleTTL <= 0 {
		o.IdleTTL = 3 * time.Minute
	}
	return &IPRateLimiter{opt: o, now: time.Now, visitors: map[string]*visitor{}}
}

// Allow reports whether a request from ip may proceed
func (l *IPRateLimiter) Allow(ip string) bool {
	if l == nil || l.opt.RPS <= 0 {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastGC) > l.opt.IdleTTL {
		for k, v := range l.visitors {
			if now.Sub(v.seen) > l.opt.IdleTTL {
				delete(l.visitors, k)
			}
		}
		l.lastGC = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(rate.Limit(l.opt.RPS), l.opt.Burst)}
		l.visitors[ip] = v
	}
	v.seen = now
	return v.lim.AllowN(now, 1)
}

// RateLimit rejects requests over the per ip budget with a 429 envelope
// place after RealIP so RemoteAddr reflects the client
func RateLimit(l *IPRateLimiter, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				status, body := pnet.Error(perr.Newf(perr.ErrorCodeTooManyRequests, "rate limit exceeded"), pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
