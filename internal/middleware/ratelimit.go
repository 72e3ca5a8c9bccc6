package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/jobzee/jobzee/httpx"
	"github.com/jobzee/jobzee/i18n"
)

// RateLimit allows limit requests per window and client IP, answering 429
// with Retry-After once exceeded.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			lang := i18n.LangFromContext(r.Context())
			httpx.JSONError(w, http.StatusTooManyRequests, "rate_limited", i18n.T(lang, "rate_limited"), nil)
		}),
	)
}
