package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
)

// Logging строит логгер запроса (request_id, session_id), кладёт его в контекст
// и по завершении пишет запись "http". route — шаблон chi ("/news/{id}"),
// по нему удобно группировать записи.
func Logging(base *slog.Logger) Middleware {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var scope []any
			if rid := r.Header.Get("X-Request-Id"); rid != "" {
				scope = append(scope, slog.String("request_id", rid))
			}
			if sid := SessionID(r.Context()); sid != "" {
				scope = append(scope, slog.String("session_id", sid))
			}
			l := base.With(scope...)

			rec := &responseRecorder{ResponseWriter: w}
			started := time.Now()
			next.ServeHTTP(rec, r.WithContext(log.Into(r.Context(), l)))

			level := slog.LevelInfo
			if rec.code >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			l.LogAttrs(r.Context(), level, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", routePattern(r)),
				slog.Int("status", rec.code),
				slog.Int("bytes", rec.bytes),
				slog.Duration("dur", time.Since(started)),
			)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}

	return ""
}
