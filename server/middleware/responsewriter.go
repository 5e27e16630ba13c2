package middleware

import "net/http"

// statusWriter remembers the first status code and counts body bytes for
// the logging and tracing middlewares.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int
	sent    bool
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.sent {
		w.status, w.sent = code, true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	w.sent = true
	n, err := w.ResponseWriter.Write(p)
	w.written += n
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController, which
// covers Flush and Hijack.
func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
