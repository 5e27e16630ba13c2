package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/voiceorder/logger"
)

// slowRequest marks requests worth a closer look; transcription routinely
// takes a few seconds, so the bar is high.
const slowRequest = 10 * time.Second

// RequestLogger logs method, path, status and duration of every request.
// Probe paths are not logged.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbe(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			d := time.Since(start)

			fields := logger.Fields(
				"method", r.Method,
				logger.FieldPath, r.URL.Path,
				logger.FieldStatus, sw.status,
				logger.FieldDuration, d.Milliseconds(),
				logger.FieldBytes, sw.written,
			)
			if d > slowRequest {
				fields["slow"] = true
			}

			l := log.WithContext(r.Context())
			switch {
			case sw.status >= 500:
				l.Error("request completed", fields)
			case sw.status >= 400:
				l.Warn("request completed", fields)
			default:
				l.Debug("request completed", fields)
			}
		})
	}
}

func isProbe(path string) bool {
	switch path {
	case "/health", "/ready", "/info":
		return true
	}
	return false
}
