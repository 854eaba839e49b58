package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hyperjump/moyu/internal/metrics"
)

const unmatchedRoute = "unmatched"

// HTTPMetrics records request count and duration labelled by method, chi
// route pattern and status. Health checks are excluded.
func HTTPMetrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			m.ObserveHTTPRequest(r.Method, routePattern(r), strconv.Itoa(sw.statusCode), time.Since(start).Seconds())
		})
	}
}

// routePattern returns the matched chi route so that label cardinality stays
// bounded by the route table.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
