package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// WithTimeout ограничивает unary-вызов сроком d, если клиент не прислал свой
// дедлайн. Стримы не ограничиваются: health.Watch живёт долго.
func WithTimeout(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, cancel := boundedContext(ctx, d)
		defer cancel()

		return handler(ctx, req)
	}
}

// boundedContext добавляет дедлайн d, если у ctx его нет и d > 0.
func boundedContext(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, has := ctx.Deadline(); has || d <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, d)
}
