package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/admin-shell/config"
	"github.com/ErlanBelekov/admin-shell/internal/apiclient"
	"github.com/ErlanBelekov/admin-shell/internal/health"
	ctxlog "github.com/ErlanBelekov/admin-shell/internal/log"
	"github.com/ErlanBelekov/admin-shell/internal/metrics"
	"github.com/ErlanBelekov/admin-shell/internal/recovery"
	"github.com/ErlanBelekov/admin-shell/internal/scheduler"
	httptransport "github.com/ErlanBelekov/admin-shell/internal/transport/http"
	"github.com/ErlanBelekov/admin-shell/internal/transport/http/handler"
	"github.com/ErlanBelekov/admin-shell/internal/transport/http/middleware"
	"github.com/ErlanBelekov/admin-shell/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	errHandler := recovery.NewHandler(logger, nil)

	// Session
	auth := usecase.NewAuthUsecase(scheduler.NewAsync(errHandler), logger)
	app := handler.AppInfo{Name: cfg.AppName, Version: cfg.AppVersion}

	// Backend API (optional)
	deps := map[string]health.Pinger{}
	var homeHandler *handler.HomeHandler
	if cfg.APIURL != "" {
		client, err := apiclient.New(cfg.APIURL, cfg.APITimeout,
			apiclient.AuthInterceptor(auth),
			apiclient.ErrorInterceptor(logger),
		)
		if err != nil {
			log.Fatalf("api client: %v", err)
		}
		deps["backend"] = client
		homeHandler = handler.NewHomeHandler(auth, client, app, logger)
	} else {
		homeHandler = handler.NewHomeHandler(auth, nil, app, logger)
	}

	checker := health.NewChecker(deps, logger, reg)

	limiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst, logger)
	go limiter.Start(ctx)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(httptransport.RouterDeps{
			Logger:       logger,
			Errors:       errHandler,
			Guard:        middleware.NewGuard(auth),
			LoginLimiter: limiter,
			Auth:         handler.NewAuthHandler(auth, app, cfg.APITimeout, logger),
			Home:         homeHandler,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, reg, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "app", cfg.AppName, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
