package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/pribylovaa/lapa-nations/internal/errors"
	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
)

// Recover превращает panic обработчика в 500/internal; клиент деталей не видит.
// http.ErrAbortHandler не перехватывается: так net/http обрывает соединение.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				switch rec {
				case nil:
					return
				case http.ErrAbortHandler:
					panic(rec)
				}

				log.From(r.Context()).Error("panic_recovered",
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
				apierrors.WriteError(w, r, fmt.Errorf("panic: %v", rec))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
