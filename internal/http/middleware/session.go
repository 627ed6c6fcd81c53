package middleware

import (
	"context"
	"net/http"
	"strings"
)

// SessionHeader — заголовок с идентификатором браузерной сессии.
const SessionHeader = "X-Session-Id"

type sessionKey struct{}

// Session кладёт X-Session-Id в контекст. Сессию не создаёт:
// клиент сам генерирует id и хранит его у себя.
func Session() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(SessionHeader))
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID возвращает id сессии запроса ("" — анонимный запрос).
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
