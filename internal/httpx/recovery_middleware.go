package httpx

import (
	"log"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware turns a panic into a logged 500 JSON error. Nothing is
// written when the handler already sent its status line.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := wrapResponseWriter(w)
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}
			log.Printf("panic recovered: method=%s path=%s request_id=%s error=%v stack=%s",
				r.Method, r.URL.Path, RequestIDFrom(r), p, debug.Stack())

			if !rw.wroteHeader() {
				JSONError(rw, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
			}
		}()
		next.ServeHTTP(rw, r)
	})
}
