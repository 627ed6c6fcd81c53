// log хранит request-scoped *slog.Logger в context.Context.
package log

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// Into кладёт логгер в контекст. nil-логгер не сохраняется.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	if l == nil {
		return ctx
	}

	return context.WithValue(ctx, loggerKey{}, l)
}

// From достаёт логгер из контекста (или возвращает slog.Default()).
func From(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}

	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}

	return slog.Default()
}

// With дополняет логгер из контекста атрибутами и кладёт результат обратно.
func With(ctx context.Context, args ...any) context.Context {
	return Into(ctx, From(ctx).With(args...))
}
