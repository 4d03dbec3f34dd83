package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const timeoutBody = `{"error": "Request timeout", "message": "The request took too long to process"}`

// TimeoutMiddleware bounds every request by timeout. Handlers see the
// deadline on the request context.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			r = r.WithContext(ctx)

			tw := newTimeoutWriter(w)
			done := make(chan struct{}, 1)
			go func() {
				next.ServeHTTP(tw, r)
				// headers set by a handler that never wrote a body
				tw.own()
				done <- struct{}{}
			}()

			select {
			case <-done:
			case <-ctx.Done():
				// a handler that already started its response keeps the
				// writer until it returns
				if ctx.Err() != context.DeadlineExceeded || !tw.claim() {
					<-done
					return
				}
				zap.S().Warnw("Request timeout",
					"path", r.URL.Path,
					"method", r.Method,
					"timeout", timeout)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestTimeout)
				w.Write([]byte(timeoutBody))
			}
		})
	}
}
