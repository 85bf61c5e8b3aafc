package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/wholesale-backend/pkg/metrics"
)

// Metrics observes every request under its chi route pattern. The pattern is
// read after the handler ran, once routing has resolved it.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			m.Observe(routePattern(r), r.Method, defaultStatus(rec.status), time.Since(start))
		})
	}
}
