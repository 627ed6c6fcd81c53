package interceptors

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
)

// logRecord — одна запись slog с плоскими атрибутами (включая With-атрибуты).
type logRecord struct {
	msg   string
	level slog.Level
	attrs map[string]any
}

// logSink — потокобезопасный slog.Handler, складывающий записи в срез.
type logSink struct {
	scope []slog.Attr
	store *sinkStore
}

type sinkStore struct {
	mu      sync.Mutex
	records []logRecord
}

func newLogSink() (*slog.Logger, *sinkStore) {
	st := &sinkStore{}
	return slog.New(&logSink{store: st}), st
}

func (s *logSink) Enabled(context.Context, slog.Level) bool { return true }

func (s *logSink) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(s.scope)+r.NumAttrs())
	for _, a := range s.scope {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	s.store.mu.Lock()
	s.store.records = append(s.store.records, logRecord{msg: r.Message, level: r.Level, attrs: attrs})
	s.store.mu.Unlock()
	return nil
}

func (s *logSink) WithAttrs(attrs []slog.Attr) slog.Handler {
	scope := append(append([]slog.Attr{}, s.scope...), attrs...)
	return &logSink{scope: scope, store: s.store}
}

func (s *logSink) WithGroup(string) slog.Handler { return s }

// last возвращает последнюю запись (пустую, если записей нет).
func (st *sinkStore) last() logRecord {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.records) == 0 {
		return logRecord{}
	}
	return st.records[len(st.records)-1]
}

// count — число записей с сообщением msg.
func (st *sinkStore) count(msg string) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for _, r := range st.records {
		if r.msg == msg {
			n++
		}
	}
	return n
}

// fakeStream — минимальный grpc.ServerStream с заданным контекстом.
type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *fakeStream) Context() context.Context { return s.ctx }

func TestUnaryLoggingInterceptor_RequestIDAndPeer(t *testing.T) {
	t.Parallel()

	logger, sink := newLogSink()
	md := metadata.New(map[string]string{"x-request-id": "rid-123"})
	ctx := metadata.NewIncomingContext(context.Background(), md)
	ctx = peer.NewContext(ctx, &peer.Peer{Addr: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50060}})

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	resp, err := UnaryLoggingInterceptor(logger)(ctx, "req", info, func(ctx context.Context, req any) (any, error) {
		log.From(ctx).Info("handler")
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", resp)

	rec := sink.last()
	msg, lvl, attrs := rec.msg, rec.level, rec.attrs
	require.Equal(t, "grpc", msg)
	require.Equal(t, slog.LevelInfo, lvl)
	require.Equal(t, "rid-123", attrs["request_id"])
	require.Equal(t, info.FullMethod, attrs["method"])
	require.Equal(t, "127.0.0.1:50060", attrs["peer"])
	require.Equal(t, "OK", attrs["code"])
	require.Equal(t, 1, sink.count("handler"))
}

func TestUnaryLoggingInterceptor_GeneratesUUIDAndLogsCode(t *testing.T) {
	t.Parallel()

	logger, sink := newLogSink()
	info := &grpc.UnaryServerInfo{FullMethod: "/x/Fail"}

	_, err := UnaryLoggingInterceptor(logger)(context.Background(), "req", info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "nope")
	})
	require.Error(t, err)

	attrs := sink.last().attrs
	require.Equal(t, "NotFound", attrs["code"])
	require.Equal(t, "-", attrs["peer"])

	rid, _ := attrs["request_id"].(string)
	_, parseErr := uuid.Parse(rid)
	require.NoError(t, parseErr)
}

func TestStreamLoggingInterceptor_LoggerInStreamContext(t *testing.T) {
	t.Parallel()

	logger, sink := newLogSink()
	md := metadata.New(map[string]string{"x-request-id": "s-1"})
	ss := &fakeStream{ctx: metadata.NewIncomingContext(context.Background(), md)}
	info := &grpc.StreamServerInfo{FullMethod: "/grpc.health.v1.Health/Watch", IsServerStream: true}

	err := StreamLoggingInterceptor(logger)(nil, ss, info, func(_ any, stream grpc.ServerStream) error {
		log.From(stream.Context()).Info("inside")
		return nil
	})
	require.NoError(t, err)

	rec := sink.last()
	msg, attrs := rec.msg, rec.attrs
	require.Equal(t, "grpc_stream", msg)
	require.Equal(t, "s-1", attrs["request_id"])
	require.Equal(t, 1, sink.count("inside"))
}

func TestRecover_PanicToInternal(t *testing.T) {
	t.Parallel()

	logger, sink := newLogSink()
	info := &grpc.UnaryServerInfo{FullMethod: "/x/Panic"}

	resp, err := Recover(logger)(context.Background(), "req", info, func(context.Context, any) (any, error) {
		panic("boom")
	})
	require.Nil(t, resp)
	require.Equal(t, codes.Internal, status.Code(err))

	rec := sink.last()
	msg, lvl, attrs := rec.msg, rec.level, rec.attrs
	require.Equal(t, "panic_recovered", msg)
	require.Equal(t, slog.LevelError, lvl)
	require.Equal(t, info.FullMethod, attrs["method"])
	stack, _ := attrs["stack"].(string)
	require.NotEmpty(t, stack)
}

func TestRecover_NoPanicNoLogs(t *testing.T) {
	t.Parallel()

	logger, sink := newLogSink()
	resp, err := Recover(logger)(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: "/x/OK"},
		func(context.Context, any) (any, error) { return "ok", nil })
	require.NoError(t, err)
	require.Equal(t, "ok", resp)

	msg := sink.last().msg
	require.Empty(t, msg)
}

func TestRecoverStream_PanicToInternal(t *testing.T) {
	t.Parallel()

	logger, sink := newLogSink()
	ss := &fakeStream{ctx: context.Background()}
	err := RecoverStream(logger)(nil, ss, &grpc.StreamServerInfo{FullMethod: "/x/Watch"},
		func(any, grpc.ServerStream) error { panic("boom") })
	require.Equal(t, codes.Internal, status.Code(err))

	msg := sink.last().msg
	require.Equal(t, "panic_recovered", msg)
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	info := &grpc.UnaryServerInfo{FullMethod: "/x/Sleep"}

	t.Run("sets deadline", func(t *testing.T) {
		_, err := WithTimeout(30*time.Millisecond)(context.Background(), "req", info, func(ctx context.Context, _ any) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("keeps existing deadline", func(t *testing.T) {
		parent, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
		defer cancel()
		pdl, _ := parent.Deadline()

		_, err := WithTimeout(time.Second)(parent, "req", info, func(ctx context.Context, _ any) (any, error) {
			dl, ok := ctx.Deadline()
			require.True(t, ok)
			require.WithinDuration(t, pdl, dl, time.Millisecond)
			return "ok", nil
		})
		require.NoError(t, err)
	})

	t.Run("zero is passthrough", func(t *testing.T) {
		_, err := WithTimeout(0)(context.Background(), "req", info, func(ctx context.Context, _ any) (any, error) {
			_, ok := ctx.Deadline()
			require.False(t, ok)
			return "ok", nil
		})
		require.NoError(t, err)
	})
}

// Полная цепочка на настоящем gRPC-сервере с health-сервисом.
func TestChain_HealthServer(t *testing.T) {
	t.Parallel()

	logger, sink := newLogSink()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(Recover(logger), UnaryLoggingInterceptor(logger), WithTimeout(time.Second)),
		grpc.ChainStreamInterceptor(RecoverStream(logger), StreamLoggingInterceptor(logger)),
	)
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-request-id", "chain-1")
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	rec := sink.last()
	msg, attrs := rec.msg, rec.attrs
	require.Equal(t, "grpc", msg)
	require.Equal(t, "chain-1", attrs["request_id"])
	require.Equal(t, "/grpc.health.v1.Health/Check", attrs["method"])
}

func TestUnaryLoggingInterceptor_ServerFaultsAtErrorLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code codes.Code
		want slog.Level
	}{
		{codes.InvalidArgument, slog.LevelInfo},
		{codes.Internal, slog.LevelError},
		{codes.Unavailable, slog.LevelError},
	}

	for _, tt := range tests {
		logger, sink := newLogSink()
		_, _ = UnaryLoggingInterceptor(logger)(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: "/x/Y"},
			func(context.Context, any) (any, error) { return nil, status.Error(tt.code, "x") })

		require.Equal(t, tt.want, sink.last().level, tt.code.String())
	}
}
