package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/pribylovaa/lapa-nations/internal/config"
	lapahttp "github.com/pribylovaa/lapa-nations/internal/http"
	"github.com/pribylovaa/lapa-nations/internal/interceptors"
	"github.com/pribylovaa/lapa-nations/internal/service"
)

// newHTTPServer собирает REST/SSE API и служебные ручки /livez, /healthz, /metrics.
// Контексты запросов наследуют base: его отмена закрывает SSE-стримы.
func newHTTPServer(base context.Context, cfg *config.Config, svc *service.Service, ready *atomic.Bool, log *slog.Logger) *http.Server {
	ok := func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) { ok(w) })
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !ready.Load() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		ok(w)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", lapahttp.NewRouter(svc, lapahttp.Options{
		Logger:   log,
		Timeout:  cfg.Timeouts.Service,
		BasePath: cfg.HTTP.BasePath,
	}))

	return &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
}

// newGRPCServer — gRPC-сервер с health-сервисом для оркестратора.
func newGRPCServer(cfg *config.Config, log *slog.Logger) (*grpc.Server, *health.Server) {
	grpc_prometheus.EnableHandlingTimeHistogram()

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.Recover(log),
			interceptors.UnaryLoggingInterceptor(log),
			interceptors.WithTimeout(cfg.Timeouts.Service),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			interceptors.RecoverStream(log),
			interceptors.StreamLoggingInterceptor(log),
			grpc_prometheus.StreamServerInterceptor,
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	if cfg.Env == envLocal || cfg.Env == envDev {
		reflection.Register(srv)
	}
	grpc_prometheus.Register(srv)

	return srv, hs
}
