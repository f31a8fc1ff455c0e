package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibbank/cre-underwriting/internal/application/usecase"
	"github.com/bibbank/cre-underwriting/internal/domain/service"
	"github.com/bibbank/cre-underwriting/internal/infrastructure/cache"
	"github.com/bibbank/cre-underwriting/internal/infrastructure/config"
	"github.com/bibbank/cre-underwriting/internal/infrastructure/document"
	"github.com/bibbank/cre-underwriting/internal/infrastructure/kafka"
	pgRepo "github.com/bibbank/cre-underwriting/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/cre-underwriting/internal/infrastructure/scheduler"
	"github.com/bibbank/cre-underwriting/internal/infrastructure/telemetry"
	grpcPresentation "github.com/bibbank/cre-underwriting/internal/presentation/grpc"
	"github.com/bibbank/cre-underwriting/internal/presentation/rest"
	"github.com/bibbank/cre-underwriting/pkg/auth"
	pkgkafka "github.com/bibbank/cre-underwriting/pkg/kafka"
	"github.com/bibbank/cre-underwriting/pkg/observability"
	pkgpostgres "github.com/bibbank/cre-underwriting/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("underwriting-service exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Telemetry.LogLevel,
		Format:  cfg.Telemetry.LogFormat,
		Service: cfg.ServiceName,
	})
	logger.Info("starting underwriting-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"environment", cfg.Environment,
	)

	// Tracing is optional; without an endpoint spans go to the no-op provider.
	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush

	// Database.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, cfg.DB.Pool())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(cfg.DB.Pool().DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Cache.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	resultCache := cache.NewResultCache(redisClient, cfg.Redis.TTL)

	// Messaging.
	producer, err := pkgkafka.NewProducer(cfg.Kafka.Producer())
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer producer.Close()
	publisher := kafka.NewOutboxPublisher(producer, cfg.Kafka.Topic, logger)

	recorder, err := telemetry.NewDecisionRecorder(meterProvider.Meter("github.com/bibbank/cre-underwriting"))
	if err != nil {
		return fmt.Errorf("create decision recorder: %w", err)
	}

	// Repositories.
	deals := pgRepo.NewDealRepo(pool)
	financials := pgRepo.NewFinancialsRepo(pool)
	results := pgRepo.NewUnderwritingResultRepo(pool)
	sheets := pgRepo.NewTermSheetRepo(pool)
	uow := pgRepo.NewUnitOfWork(pool)
	outbox := pgRepo.NewOutboxStore(pool)

	// Use cases.
	runUC := usecase.NewRunUnderwritingUseCase(deals, financials, uow, resultCache, recorder,
		service.NewUnderwritingEngine(), logger)
	getResultUC := usecase.NewGetUnderwritingResultUseCase(results, resultCache, logger)
	listResultsUC := usecase.NewListDealUnderwritingUseCase(deals, results)
	relayUC := usecase.NewRelayOutboxUseCase(outbox, publisher, cfg.Outbox.BatchSize, logger)

	jwtCfg, err := cfg.Auth.JWT()
	if err != nil {
		return fmt.Errorf("jwt config: %w", err)
	}
	jwtSvc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return fmt.Errorf("init jwt service: %w", err)
	}

	// Outbox relay.
	sched := scheduler.New(logger, time.Minute)
	err = sched.AddJob(cfg.Outbox.Schedule, scheduler.JobFunc{
		JobName: "outbox-relay",
		Fn: func(ctx context.Context) error {
			_, err := relayUC.Execute(ctx)
			return err
		},
	})
	if err != nil {
		return fmt.Errorf("schedule outbox relay: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// gRPC server.
	grpcHandler := grpcPresentation.NewUnderwritingHandler(runUC, getResultUC, listResultsUC, logger)
	grpcServer, err := grpcPresentation.NewServer(grpcPresentation.ServerConfig{
		ServiceName: cfg.ServiceName,
		TLS:         cfg.TLS,
		Reflection:  cfg.GRPCReflection,
	}, grpcHandler, jwtSvc, logger)
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}

	// HTTP server.
	api := rest.NewHandler(rest.UseCases{
		CreateDeal:       usecase.NewCreateDealUseCase(uow, logger),
		GetDeal:          usecase.NewGetDealUseCase(deals),
		ListDeals:        usecase.NewListDealsUseCase(deals),
		UpsertFinancials: usecase.NewUpsertPropertyFinancialsUseCase(deals, financials),
		RunUnderwriting:  runUC,
		GetUnderwriting:  getResultUC,
		ListUnderwriting: listResultsUC,
		PortfolioSummary: usecase.NewPortfolioSummaryUseCase(results),
		CreateTermSheet:  usecase.NewCreateTermSheetUseCase(deals, sheets, uow, logger),
		GetTermSheet:     usecase.NewGetTermSheetUseCase(sheets),
		ListTermSheets:   usecase.NewListDealTermSheetsUseCase(deals, sheets),
		RenderTermSheet:  usecase.NewRenderTermSheetUseCase(deals, sheets, document.NewTermSheetRenderer()),
	}, logger)

	health := rest.NewHealthHandler(cfg.ServiceName, map[string]rest.Checker{
		"postgres": pool.Ping,
		"redis":    resultCache.Ping,
	}, logger)

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.NewRouter(rest.RouterConfig{
			API:         api,
			Health:      health,
			Metrics:     metricsHandler,
			JWT:         jwtSvc,
			CORSOrigins: cfg.CORSOrigins,
			Logger:      logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("underwriting-service stopped")
	return serveErr
}
