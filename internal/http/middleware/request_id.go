package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader — заголовок корреляции запросов.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID гарантирует X-Request-Id: входящий заголовок переиспользуется,
// иначе выдаётся новый UUID. Id попадает в заголовок ответа, в контекст
// и в заголовки запроса (его читают Logging и errors.WriteError).
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(RequestIDHeader, id)
			}
			w.Header().Set(RequestIDHeader, id)

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// RequestIDFrom возвращает id запроса из контекста.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
