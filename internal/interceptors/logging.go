// interceptors — серверные gRPC-интерсепторы lapa-service: логирование,
// перехват паник и таймаут. Логирование и recover есть в unary- и
// stream-варианте (health.Watch — стриминговый вызов).
package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
)

// callLogger — логгер вызова с request_id (x-request-id или новый UUID),
// методом и адресом клиента ("-", если неизвестен).
func callLogger(ctx context.Context, base *slog.Logger, method string) *slog.Logger {
	rid := uuid.NewString()
	if v := metadata.ValueFromIncomingContext(ctx, "x-request-id"); len(v) > 0 && v[0] != "" {
		rid = v[0]
	}

	addr := "-"
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		addr = p.Addr.String()
	}

	return base.With(
		slog.String("request_id", rid),
		slog.String("method", method),
		slog.String("peer", addr),
	)
}

// logResult пишет итоговую запись вызова. Серверные сбои — уровнем Error.
func logResult(ctx context.Context, l *slog.Logger, msg string, err error, started time.Time) {
	code := status.Code(err)

	level := slog.LevelInfo
	switch code {
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
		level = slog.LevelError
	}

	l.LogAttrs(ctx, level, msg,
		slog.String("code", code.String()),
		slog.Duration("dur", time.Since(started)),
	)
}

// UnaryLoggingInterceptor кладёт логгер вызова в context и пишет запись "grpc".
func UnaryLoggingInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		l := callLogger(ctx, base, info.FullMethod)

		resp, err := handler(log.Into(ctx, l), req)
		logResult(ctx, l, "grpc", err, started)

		return resp, err
	}
}

// StreamLoggingInterceptor — то же для стримов; запись "grpc_stream" пишется
// при закрытии стрима.
func StreamLoggingInterceptor(base *slog.Logger) grpc.StreamServerInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		started := time.Now()
		ctx := ss.Context()
		l := callLogger(ctx, base, info.FullMethod)

		err := handler(srv, &loggedStream{ServerStream: ss, ctx: log.Into(ctx, l)})
		logResult(ctx, l, "grpc_stream", err, started)

		return err
	}
}

// loggedStream отдаёт обработчику контекст с логгером вызова.
type loggedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *loggedStream) Context() context.Context { return s.ctx }
