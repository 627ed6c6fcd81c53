package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout ограничивает обработку запроса сроком d. Уже выставленный дедлайн
// не меняется; d<=0 отключает мидлвар. SSE-маршруты регистрируются без него.
func Timeout(d time.Duration) Middleware {
	if d <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, has := ctx.Deadline(); !has {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}
