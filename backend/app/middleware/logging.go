package middleware

import (
	"net/http"
	"time"

	"user-grid/backend/global"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Logging writes one line per request. It runs after chi's RequestID so
// the id the client sent (or one chi generated) is included.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			// handler wrote nothing
			status = http.StatusOK
		}
		ev := global.Logger.Info()
		if status >= http.StatusInternalServerError {
			ev = global.Logger.Error()
		}
		ev.Str("ip", r.RemoteAddr).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}
