package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appavatax "github.com/oms/avatax/internal/application/avatax"
	apporder "github.com/oms/avatax/internal/application/order"
	"github.com/oms/avatax/internal/domain/avatax"
	"github.com/oms/avatax/internal/domain/shared"
	infraavatax "github.com/oms/avatax/internal/infrastructure/avatax"
	"github.com/oms/avatax/internal/infrastructure/cache"
	"github.com/oms/avatax/internal/infrastructure/config"
	"github.com/oms/avatax/internal/infrastructure/event"
	"github.com/oms/avatax/internal/infrastructure/logger"
	"github.com/oms/avatax/internal/infrastructure/persistence"
	"github.com/oms/avatax/internal/infrastructure/telemetry"
	"github.com/oms/avatax/internal/interfaces/http/handler"
	"github.com/oms/avatax/internal/interfaces/http/middleware"
	"github.com/oms/avatax/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.Bool("avatax_enabled", cfg.Avatax.Enabled),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	orderRepo := persistence.NewGormOrderRepository(db.DB)
	transactionRepo := persistence.NewGormAvataxTransactionRepository(db.DB)

	taxClient, err := newTaxClient(cfg, log)
	if err != nil {
		log.Fatal("Failed to create tax client", zap.Error(err))
	}

	builder := appavatax.NewRequestBuilder(cfg.Avatax.CompanyCode)
	taxService := appavatax.NewTaxAdjustmentService(
		orderRepo, transactionRepo, taxClient, builder, cfg.Avatax.Enabled, log)
	voidService := appavatax.NewVoidService(
		transactionRepo, taxClient, cfg.Avatax.Enabled, log)

	idempotencyStore, err := cache.NewIdempotencyStore(cfg)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Failed to close idempotency store", zap.Error(err))
		}
	}()

	bus := event.NewInMemoryEventBus(log,
		event.WithHandlerTimeout(cfg.Event.HandlerTimeout),
	)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	idempotencyConfig := shared.IdempotencyConfig{
		TTL:     cfg.Event.IdempotencyTTL,
		Enabled: cfg.Event.IdempotencyEnabled,
	}
	handlers := event.WrapHandlersWithIdempotency(
		[]shared.EventHandler{
			appavatax.NewOrderRecalculatedHandler(taxService, log),
			appavatax.NewOrderCancelledHandler(voidService, log),
		},
		idempotencyStore,
		log,
		event.WithIdempotencyConfig(idempotencyConfig),
	)
	for _, h := range handlers {
		bus.Subscribe(h)
	}

	lifecycleService := apporder.NewLifecycleService(orderRepo, bus, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))

	orderHandler := handler.NewOrderHandler(lifecycleService, log)
	avataxHandler := handler.NewAvataxHandler(taxService, voidService, transactionRepo, log)
	healthHandler := handler.NewHealthHandler(db)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(orderHandler).
		Register(avataxHandler).
		Register(healthHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop event bus", zap.Error(err))
	}

	log.Info("Server stopped")
}

// newTaxClient builds the AvaTax REST client from configuration. When the
// integration is disabled no client is constructed: the services short
// circuit on the enabled flag and never reach it.
func newTaxClient(cfg *config.Config, log *zap.Logger) (avatax.TaxClient, error) {
	if !cfg.Avatax.Enabled {
		return nil, nil
	}

	clientCfg := &infraavatax.Config{
		AccountID:   cfg.Avatax.AccountID,
		LicenseKey:  cfg.Avatax.LicenseKey,
		CompanyCode: cfg.Avatax.CompanyCode,
		APIBaseURL:  cfg.Avatax.APIBaseURL,
		IsSandbox:   cfg.Avatax.Environment == "sandbox",
		Timeout:     cfg.Avatax.Timeout,
	}
	if clientCfg.APIBaseURL == "" {
		if clientCfg.IsSandbox {
			clientCfg.APIBaseURL = infraavatax.SandboxAPIURL
		} else {
			clientCfg.APIBaseURL = infraavatax.ProductionAPIURL
		}
	}
	return infraavatax.NewRestClient(clientCfg, log)
}
