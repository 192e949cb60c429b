package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout attaches a deadline to the request context and runs the handler
// synchronously. Handlers that see context.DeadlineExceeded answer 503
// themselves; if the deadline passes and the handler wrote nothing, the
// 503 is sent here. A handler blocked on something that ignores its context is
// not interrupted.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			tw := &trackingWriter{ResponseWriter: w}
			next.ServeHTTP(tw, r.WithContext(ctx))

			if ctx.Err() != nil && !tw.Written() {
				writeError(w, http.StatusServiceUnavailable, "request timed out")
			}
		})
	}
}

type trackingWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	written bool
}

func (t *trackingWriter) WriteHeader(status int) {
	t.mark()
	t.ResponseWriter.WriteHeader(status)
}

func (t *trackingWriter) Write(b []byte) (int, error) {
	t.mark()
	return t.ResponseWriter.Write(b)
}

func (t *trackingWriter) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}

func (t *trackingWriter) mark() {
	t.mu.Lock()
	t.written = true
	t.mu.Unlock()
}

func (t *trackingWriter) Written() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.written
}
