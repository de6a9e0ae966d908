package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpadp "github.com/bookingcontrol/booker-dispatch-svc/internal/adapter/http"
	kafkaadp "github.com/bookingcontrol/booker-dispatch-svc/internal/adapter/kafka"
	postgresadp "github.com/bookingcontrol/booker-dispatch-svc/internal/adapter/postgres"
	redisadp "github.com/bookingcontrol/booker-dispatch-svc/internal/adapter/redis"
	"github.com/bookingcontrol/booker-dispatch-svc/internal/config"
	dom "github.com/bookingcontrol/booker-dispatch-svc/internal/domain/dispatch"
	kafkainfra "github.com/bookingcontrol/booker-dispatch-svc/internal/infrastructure/kafka"
	"github.com/bookingcontrol/booker-dispatch-svc/internal/infrastructure/metrics"
	postgresinfra "github.com/bookingcontrol/booker-dispatch-svc/internal/infrastructure/postgres"
	redisinfra "github.com/bookingcontrol/booker-dispatch-svc/internal/infrastructure/redis"
	"github.com/bookingcontrol/booker-dispatch-svc/internal/infrastructure/tracing"
	"github.com/bookingcontrol/booker-dispatch-svc/internal/usecase/dispatch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.App.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Tracing
	shutdown, err := tracing.InitTracer(cfg.App.Name, cfg.Tracing.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer shutdown()

	// PostgreSQL
	dbPool, err := postgresinfra.NewPool(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName, cfg.Postgres.User, cfg.Postgres.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Redis
	redisClient := redisinfra.NewClient(cfg.Redis.Addr, cfg.Redis.Password)

	// Kafka producer with retry logic
	var producer *kafkainfra.Producer
	maxRetries := 20
	retryDelay := 3 * time.Second
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("Attempting to connect to Kafka...")
	for i := 0; i < maxRetries; i++ {
		var err error
		producer, err = kafkainfra.NewAsyncProducer(cfg.Kafka.Brokers, cfg.Kafka.ApplicationTopic)
		if err == nil {
			log.Info().Msg("Kafka producer connected successfully")
			break
		}
		if i < maxRetries-1 {
			log.Warn().Err(err).Int("attempt", i+1).Int("max_retries", maxRetries).Dur("retry_delay", retryDelay).Msg("Failed to create Kafka producer, retrying...")
			time.Sleep(retryDelay)
		} else {
			log.Fatal().Err(err).Int("total_attempts", maxRetries).Msg("Failed to create Kafka producer after all retries")
		}
	}
	defer producer.Close()

	// Adapters
	eventRepo := postgresadp.NewEventRepository(dbPool)
	failureRepo := postgresadp.NewFailureRepository(dbPool)
	publisher := kafkaadp.NewPublisher(producer, cfg.Kafka.ApplicationTopic, cfg.Kafka.BatchTopic, cfg.Kafka.PublishTimeout)

	var cache dom.CapacityCache
	if cfg.Cache.TTL > 0 {
		cache = redisadp.NewCapacityCache(redisClient)
		log.Info().Dur("ttl", cfg.Cache.TTL).Msg("Capacity cache enabled")
	}

	// Use case
	dispatchService := dispatch.NewService(
		eventRepo,
		failureRepo,
		publisher,
		cache,
		dom.SystemClock{},
		cfg,
	)

	// HTTP handler
	handler := httpadp.NewHandler(dispatchService)
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	handler.Register(router)

	// Start metrics server
	metrics.StartServer(cfg.Metrics.Port)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: router,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Int("port", cfg.HTTP.Port).Msg("Dispatch service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Shutdown timeout, forcing stop")
		_ = srv.Close()
	} else {
		log.Info().Msg("Server stopped gracefully")
	}
}
