package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/theglobal/uren-backend-go/internal/config"
	"github.com/theglobal/uren-backend-go/internal/domain/audit"
	"github.com/theglobal/uren-backend-go/internal/domain/clocksession"
	"github.com/theglobal/uren-backend-go/internal/domain/geofence"
	"github.com/theglobal/uren-backend-go/internal/domain/site"
	appHTTP "github.com/theglobal/uren-backend-go/internal/handler/http"
	"github.com/theglobal/uren-backend-go/internal/pkg/cron"
	"github.com/theglobal/uren-backend-go/internal/pkg/database"
	"github.com/theglobal/uren-backend-go/internal/pkg/jwt"
	"github.com/theglobal/uren-backend-go/internal/pkg/kafka"
	"github.com/theglobal/uren-backend-go/internal/pkg/lock"
	"github.com/theglobal/uren-backend-go/internal/pkg/metrics"
	"github.com/theglobal/uren-backend-go/internal/pkg/redis"
	"github.com/theglobal/uren-backend-go/internal/pkg/sse"
	"github.com/theglobal/uren-backend-go/internal/repository/memory"
	"github.com/theglobal/uren-backend-go/internal/repository/postgresql"
	auditService "github.com/theglobal/uren-backend-go/internal/service/audit"
	clockService "github.com/theglobal/uren-backend-go/internal/service/clocksession"
	geofenceService "github.com/theglobal/uren-backend-go/internal/service/geofence"
	siteService "github.com/theglobal/uren-backend-go/internal/service/site"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	var (
		siteRepo     site.SiteRepository
		sessionRepo  clocksession.Repository
		positionRepo clocksession.PositionLogRepository
		auditStore   audit.Store
	)

	switch cfg.Database.Storage {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		positions := memory.NewPositionLogRepository()
		siteRepo = memory.NewSiteRepository()
		sessionRepo = memory.NewClockSessionRepository(positions)
		positionRepo = positions
		auditStore = memory.NewAuditStore()
	default:
		dsn := cfg.DatabaseURL()
		if cfg.Database.AutoMigrate {
			if err := database.RunMigrations(dsn, logger); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
		}

		db, err := database.NewPostgreSQLDB(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		siteRepo = postgresql.NewSiteRepository(db)
		sessionRepo = postgresql.NewClockSessionRepository(db)
		positionRepo = postgresql.NewPositionLogRepository(db)
		auditStore = postgresql.NewAuditStore(db)
	}

	var locker lock.WorkerLocker = lock.NewLocalLocker(0)
	redisClient, err := redis.New(ctx, cfg.Redis.URL, cfg.Redis.PoolSize)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient.Client, cfg.Redis.LockTTL)
		logger.Info("Using Redis worker lock")
	}

	hub := sse.NewHub(cfg.App.StreamBuffer)
	sinks := []auditService.NamedSink{
		{Name: "log", Sink: auditService.NewLogSink(logger)},
		{Name: "store", Sink: auditService.NewStoreSink(auditStore)},
		{Name: "stream", Sink: auditService.NewStreamSink(hub)},
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer producer.Close()
		sinks = append(sinks, auditService.NamedSink{Name: "kafka", Sink: auditService.NewKafkaSink(producer)})
		logger.Info("Streaming audit events to Kafka", slog.String("topic", producer.Topic()))
	}
	publisher := auditService.NewPublisher(logger, m, sinks...)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	siteSvc := siteService.NewSiteService(siteRepo)
	auditSvc := auditService.NewAuditService(auditStore)
	clockSvc := clockService.NewClockSessionService(
		sessionRepo,
		positionRepo,
		siteRepo,
		geofenceService.NewPolicy(geofence.DefaultConfig()),
		locker,
		publisher,
		m,
		logger,
		cfg.App.Location(),
	)

	clockHandler := appHTTP.NewClockHandler(clockSvc)
	reportHandler := appHTTP.NewReportHandler(clockSvc)
	siteHandler := appHTTP.NewSiteHandler(siteSvc)
	auditHandler := appHTTP.NewAuditHandler(auditSvc)
	streamHandler := appHTTP.NewStreamHandler(hub)

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.RouterOptions{
			Logger:         logger,
			CORSOrigins:    cfg.App.CORSOrigins,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		},
		clockHandler,
		reportHandler,
		siteHandler,
		auditHandler,
		streamHandler,
	)

	scheduler := cron.NewScheduler(ctx, logger)
	cron.NewSessionJobs(sessionRepo, m, logger, cfg.Cron.StaleSessionAfter).RegisterJobs(scheduler, cfg.Cron.Interval)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server running", slog.String("addr", server.Addr), slog.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-gCtx.Done()
		scheduler.Stop()
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(app config.AppConfig) *slog.Logger {
	isLocal := app.Env == "development"
	logFormat := httplog.SchemaECS.Concise(isLocal)

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(app.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("service.name", "uren-api"),
		slog.String("service.environment", app.Env),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
