package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Loekiboy/loek-it-up/internal/api/shared"
)

// TraceMiddleware assigns each request a trace ID and logs the request
// lifecycle under it. It is mounted ahead of the auth middleware so
// rejected requests are traceable too.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		log := slog.With(slog.String("trace_id", shared.GetTraceID(ctx)))

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		log.Debug("request finished",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)))
	})
}
