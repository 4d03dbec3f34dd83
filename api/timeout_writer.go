package api

import (
	"net/http"
	"sync"
)

// timeoutWriter lets either the handler or the timeout path own the
// response, never both. The handler writes headers into its own map, which
// is copied to the real writer only when the handler takes ownership.
type timeoutWriter struct {
	w http.ResponseWriter
	h http.Header

	mu      sync.Mutex
	owned   bool
	timeout bool
}

func newTimeoutWriter(w http.ResponseWriter) *timeoutWriter {
	return &timeoutWriter{w: w, h: make(http.Header)}
}

// claim hands the response to the timeout path unless the handler already
// started writing
func (tw *timeoutWriter) claim() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.owned {
		return false
	}
	tw.timeout = true
	return true
}

// own hands the response to the handler, copying its headers across the
// first time
func (tw *timeoutWriter) own() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timeout {
		return false
	}
	if !tw.owned {
		dst := tw.w.Header()
		for k, v := range tw.h {
			dst[k] = v
		}
		tw.owned = true
	}
	return true
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.h
}

func (tw *timeoutWriter) WriteHeader(code int) {
	if tw.own() {
		tw.w.WriteHeader(code)
	}
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	if !tw.own() {
		return 0, http.ErrHandlerTimeout
	}
	return tw.w.Write(b)
}
