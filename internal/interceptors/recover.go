package interceptors

import (
	"context"
	"log/slog"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
)

// errPanic — ответ клиенту вместо паники; детали остаются в логе.
var errPanic = status.Error(codes.Internal, "internal server error")

// Recover переводит панику unary-обработчика в codes.Internal.
func Recover(base *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				reportPanic(ctx, base, info.FullMethod, r)
				resp, err = nil, errPanic
			}
		}()

		return handler(ctx, req)
	}
}

// RecoverStream — Recover для стриминговых вызовов.
func RecoverStream(base *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				reportPanic(ss.Context(), base, info.FullMethod, r)
				err = errPanic
			}
		}()

		return handler(srv, ss)
	}
}

// reportPanic пишет panic_recovered логгером из контекста, а без него — base.
func reportPanic(ctx context.Context, base *slog.Logger, method string, r any) {
	l := log.From(ctx)
	if l == slog.Default() && base != nil {
		l = base
	}

	l.Error("panic_recovered",
		slog.String("method", method),
		slog.Any("panic", r),
		slog.String("stack", string(debug.Stack())),
	)
}
