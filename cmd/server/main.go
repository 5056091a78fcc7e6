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

	"github.com/Kilat-Pet-Delivery/service-care/internal/application"
	"github.com/Kilat-Pet-Delivery/service-care/internal/config"
	careDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/care"
	careEvents "github.com/Kilat-Pet-Delivery/service-care/internal/events"
	"github.com/Kilat-Pet-Delivery/service-care/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/auth"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/database"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/health"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/logger"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/metrics"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/tracing"
	"github.com/Kilat-Pet-Delivery/service-care/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-care/internal/scheduler"
	"github.com/Kilat-Pet-Delivery/service-care/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const serviceName = "service-care"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal(serviceName+" exited with error", zap.Error(err))
	}
	log.Info(serviceName + " stopped")
}

func run(cfg *config.ServiceConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.TracingConfig, log)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(&repository.OfferModel{}, &repository.CareModel{}, &repository.BlockModel{}); err != nil {
			return fmt.Errorf("failed to run auto-migration: %w", err)
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), migrations.FS, log); err != nil {
		return err
	}

	location, err := time.LoadLocation(cfg.SweepConfig.Timezone)
	if err != nil {
		return err
	}

	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		cfg.JWTConfig.AccessTokenTTL,
		cfg.JWTConfig.RefreshTokenTTL,
	)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	careRepo := repository.NewGormCareRepository(db)
	offerRepo := repository.NewGormOfferRepository(db)
	blockRepo := repository.NewGormBlockRepository(db)

	// Initialize application services
	notifier := application.NewKafkaNotifier(
		kafkaProducer,
		cfg.KafkaConfig.NotificationTopic,
		cfg.KafkaConfig.NotificationSource,
		m,
		log.Named("notifier"),
	)
	careService := application.NewCareService(
		careRepo,
		offerRepo,
		blockRepo,
		careDomain.NewStateMachine(),
		notifier,
		cfg.Currency,
		log,
		application.WithLocation(location),
		application.WithMetrics(m),
	)
	offerService := application.NewOfferService(offerRepo, log)
	blockService := application.NewBlockService(blockRepo, careService, log)

	sweepJob, err := scheduler.NewSweepJob(careService, cfg.SweepConfig.Schedule, location, log)
	if err != nil {
		return err
	}

	accountConsumer := careEvents.NewAccountEventConsumer(
		cfg.KafkaConfig.Brokers,
		cfg.KafkaConfig.GroupID,
		cfg.KafkaConfig.AccountTopic,
		blockService,
		log,
	)
	defer func() { _ = accountConsumer.Close() }()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	if m != nil {
		router.Use(m.Middleware())
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	health.NewHandler(sqlDB, serviceName).RegisterRoutes(router)

	handler.NewCareHandler(careService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewOfferHandler(offerService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminCareHandler(careService, sweepJob).RegisterRoutes(&router.RouterGroup, jwtManager)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info("starting account event consumer", zap.String("topic", cfg.KafkaConfig.AccountTopic))
		return accountConsumer.Start(ctx)
	})

	if cfg.SweepConfig.Enabled {
		g.Go(func() error {
			return sweepJob.Start(ctx)
		})
	}

	// Graceful shutdown once a signal arrives or any component fails
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down " + serviceName + "...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server forced shutdown", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}
