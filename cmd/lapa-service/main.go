package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/pribylovaa/lapa-nations/internal/config"
	"github.com/pribylovaa/lapa-nations/internal/feed"
	"github.com/pribylovaa/lapa-nations/internal/links"
	"github.com/pribylovaa/lapa-nations/internal/preview"
	"github.com/pribylovaa/lapa-nations/internal/service"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting lapa-service", "env", cfg.Env, "storage", cfg.Storage.Driver, "decider", cfg.Preview.Decider)

	if err := run(cfg, log); err != nil {
		log.Error("service_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("service_stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	be, err := openBackends(rootCtx, cfg, log)
	if err != nil {
		return err
	}
	defer be.close()

	boards, err := links.NewRegistry(cfg.Links.MaxSessions)
	if err != nil {
		return err
	}

	hub := feed.NewHub(be.bus, log, cfg.Timeouts.Service)

	svc := service.New(be.store, *cfg, service.Deps{
		Sessions: be.sessions,
		Images:   be.images,
		Fetcher:  preview.NewFetcher(cfg.Preview, nil),
		Decider:  newDecider(cfg.Preview),
		Boards:   boards,
		Hub:      hub,
	})
	log.Info("service_initialized")

	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		if err := hub.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("feed_hub_stopped", slog.String("err", err.Error()))
		}
	}()
	// Hub завершается после отмены rootCtx; ждём его до закрытия бэкендов.
	defer func() { <-hubDone }()
	defer rootCancel()

	var ready atomic.Bool
	httpSrv := newHTTPServer(rootCtx, cfg, svc, &ready, log)
	grpcSrv, hs := newGRPCServer(cfg, log)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr())
	if err != nil {
		return err
	}

	serveErr := make(chan error, 2)
	go func() {
		log.Info("http_listen_start", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	go func() {
		log.Info("grpc_listen_start", "addr", lis.Addr().String())
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErr <- err
		}
	}()

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	ready.Store(true)

	var runErr error
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case runErr = <-serveErr:
	}

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	ready.Store(false)
	rootCancel()

	shutdown(grpcSrv, httpSrv, log)
	return runErr
}

// shutdown останавливает серверы, ограничивая ожидание десятью секундами.
func shutdown(grpcSrv *grpc.Server, httpSrv *http.Server, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Warn("http_shutdown_failed", slog.String("err", err.Error()))
	}

	stopped := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		log.Info("grpc_stopped")
	case <-ctx.Done():
		log.Warn("grpc_force_stop")
		grpcSrv.Stop()
	}
}

// newDecider выбирает реализацию решения о превью.
func newDecider(cfg config.PreviewConfig) service.Decider {
	if cfg.Decider == config.DeciderHeuristic {
		return preview.Heuristic{}
	}
	return preview.NewOllama(cfg.LLM, nil)
}

func setupLogger(env string) *slog.Logger {
	var h slog.Handler
	switch env {
	case envProd:
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	case envDev:
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(h)
}
