// middleware/logging.go
package middleware

import (
	"bytes"
	"net/http"
	"time"

	"infinite-experiment/contactimport/internal/auth"
	"infinite-experiment/contactimport/internal/logging"
)

// response bodies are cut to this many bytes in debug logs
const maxLoggedBody = 1024

type respLogger struct {
	http.ResponseWriter
	status int
	buf    *bytes.Buffer
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	if room := maxLoggedBody - l.buf.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		l.buf.Write(b[:room])
	}
	return l.ResponseWriter.Write(b)
}

// Logging dumps each request and the start of its response at debug level.
// It is only mounted outside production.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := auth.GetRequestID(r.Context())
		logging.Debug("→ request",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.String(),
			"content_type", r.Header.Get("Content-Type"),
			"content_length", r.ContentLength,
		)

		buf := &bytes.Buffer{}
		lw := &respLogger{ResponseWriter: w, status: http.StatusOK, buf: buf}

		start := time.Now()
		next.ServeHTTP(lw, r)

		logging.Debug("← response",
			"request_id", requestID,
			"status", lw.status,
			"status_text", http.StatusText(lw.status),
			"duration", time.Since(start).String(),
			"body", buf.String(),
		)
	})
}
