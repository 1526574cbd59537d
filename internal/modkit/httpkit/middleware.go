package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "purchaseinbox/internal/platform/net/http"
	"purchaseinbox/internal/platform/net/middleware"
)

// slowRequest is where access log lines turn to warn
const slowRequest = 500 * time.Millisecond

// CommonStackWith is the middleware every /api/v1 route runs behind
// the timeout stays above the inbox stream's max duration
func CommonStackWith(cors middleware.CORSOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(slowRequest),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(cors),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}

// Auth is middleware.Auth writing errors through the envelope writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
