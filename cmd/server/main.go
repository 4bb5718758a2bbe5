package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tair/grocery-pos/docs"
	"github.com/tair/grocery-pos/internal/app"
	"github.com/tair/grocery-pos/internal/schema"
	"github.com/tair/grocery-pos/kafka"
	"github.com/tair/grocery-pos/pkg/config"
	"github.com/tair/grocery-pos/pkg/database"
	"github.com/tair/grocery-pos/pkg/health"
	"github.com/tair/grocery-pos/pkg/logger"
	"github.com/tair/grocery-pos/pkg/metrics"
	"github.com/tair/grocery-pos/pkg/middleware"
	"github.com/tair/grocery-pos/pkg/tracing"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("notification_sink", cfg.NotificationSink).
		Msg("Starting grocery POS service")

	tp, err := tracing.InitTracer(tracing.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    cfg.ServiceName,
		JaegerEndpoint: cfg.JaegerEndpoint,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	if err := schema.Migrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	rdb := newRedis(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher *kafka.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer publisher.Close()
	} else {
		logger.Logger.Info().Msg("No Kafka brokers configured, events disabled")
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	server, err := app.InitializeServer(cfg, db, rdb, publisher, m)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Bootstrap(ctx, cfg.BootstrapAdmin); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to bootstrap store data")
	}

	var consumer *kafka.Consumer
	if cfg.NotificationSink == config.SinkKafka {
		consumer, err = kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{kafka.TopicFor(kafka.EventTypeStockAlert)})
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
		}
		server.StockAlerts.Register(consumer)
		if err := consumer.Start(ctx); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
		}
	}

	checker := health.NewChecker(cfg.ServiceName)
	checker.Register("postgres", true, sqlDB.PingContext)
	if publisher != nil {
		checker.Register("kafka", false, publisher.Healthy)
	}
	if rdb != nil {
		checker.Register("redis", false, func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	grpcServer := health.NewGRPCServer(checker)
	go grpcServer.Watch(ctx, 15*time.Second)
	go startGRPCServer(grpcServer, cfg.GRPCPort)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           newRouter(cfg, server, checker, rdb, m),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/").
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	grpcServer.GracefulStop()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Kafka consumer close failed")
		}
	}
	if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
		logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
	}
	logger.Logger.Info().Msg("Server stopped")
}

func newRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Logger.Info().Msg("No Redis address configured, cache and rate limiting disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func newRouter(cfg *config.Config, server *app.Server, checker *health.Checker, rdb *redis.Client, m *metrics.Metrics) http.Handler {
	router := mux.NewRouter()

	mwConfig := middleware.DefaultConfig()
	mwConfig.EnableTracing = cfg.TracingEnabled
	mwConfig.Metrics = m
	mwConfig.RateLimiter = middleware.NewRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute)
	middleware.Register(router, mwConfig)

	server.RegisterRoutes(router)

	router.HandleFunc("/health", checker.Handler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return middleware.CORS(mwConfig, router)
}

func startGRPCServer(server *health.GRPCServer, port string) {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("port", port).Msg("Failed to listen for gRPC")
	}
	if err := server.Serve(lis); err != nil {
		logger.Logger.Error().Err(err).Msg("gRPC server stopped")
	}
}
