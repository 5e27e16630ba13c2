package middleware

import (
	"net/http"

	"github.com/kbukum/voiceorder/observability"
)

// Tracing opens a server span per request and records request metrics.
// A nil metrics value records spans only. Must run inside RequestID.
func Tracing(serviceName string, metrics *observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, scope := observability.BeginRequest(r.Context(), serviceName, r.Method, r.URL.Path, r.Header.Get(HeaderRequestID), metrics)
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))
			scope.End(ctx, sw.status, nil)
		})
	}
}
