package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	relayapi "github.com/skyline-media/realtime-relay/api/echo"
	"github.com/skyline-media/realtime-relay/cache"
	rediscache "github.com/skyline-media/realtime-relay/cache/redis"
	"github.com/skyline-media/realtime-relay/config"
	"github.com/skyline-media/realtime-relay/internal/metrics"
	"github.com/skyline-media/realtime-relay/internal/server"
	"github.com/skyline-media/realtime-relay/log"
	"github.com/skyline-media/realtime-relay/mongodb"
	"github.com/skyline-media/realtime-relay/realtime"
	"github.com/skyline-media/realtime-relay/services"
	"github.com/skyline-media/realtime-relay/tracing"
)

var (
	appLogger      log.Logger
	httpServer     *http.Server
	tracerProvider *sdktrace.TracerProvider
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLogger := zerolog.New(os.Stdout).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logLevel, parseErr := zerolog.ParseLevel(cfg.LogLevel)
	if parseErr != nil {
		logLevel = zerolog.InfoLevel
		bootLogger := zerolog.New(os.Stdout).With().Timestamp().Logger()
		bootLogger.Warn().
			Str("configured_log_level", cfg.LogLevel).
			Str("fallback_log_level", logLevel.String()).
			Err(parseErr).
			Msg("Invalid LOG_LEVEL configured, defaulting to 'info'")
	}
	appLogger = log.NewZerologAdapter(logLevel, cfg.LogPretty)
	appLogger.Info(context.Background(), "Starting realtime-relay server...")

	// Fail fast on missing provider credentials before touching any backend.
	if err := cfg.Validate(); err != nil {
		appLogger.Fatal(context.Background(), "Invalid configuration", err, nil)
	}
	appLogger.Info(context.Background(), "Configuration loaded", map[string]interface{}{
		"http_port":     cfg.HTTPPort,
		"mongo_db_name": cfg.MongoDBName,
		"log_level":     cfg.LogLevel,
		"otel_service":  cfg.OtelServiceName,
		"redis_cache":   cfg.RedisAddr != "",
	})

	tp, err := tracing.InitTracerProvider(cfg.OtelServiceName)
	if err != nil {
		appLogger.Fatal(context.Background(), "Failed to initialize TracerProvider", err, nil)
	}
	tracerProvider = tp

	ctx := context.Background()
	if initErr := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); initErr != nil {
		appLogger.Fatal(ctx, "Failed to initialize MongoDB connection", initErr, nil)
	}
	db := mongodb.GetDB()

	sessionRepo, err := mongodb.NewSessionRepositoryMongo(ctx, db)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize SessionRepository", err, nil)
	}
	userRepo, err := mongodb.NewUserRepository(ctx, db)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize UserRepository", err, nil)
	}
	roleRepo := mongodb.NewRoleRepository(db)

	var sessionCache cache.SessionCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if pingErr := redisClient.Ping(ctx).Err(); pingErr != nil {
			appLogger.Fatal(ctx, "Failed to connect to Redis", pingErr, nil)
		}
		sessionCache = rediscache.NewSessionCache(redisClient, cfg.SessionCachePrefix, cfg.SessionCacheTTL)
		appLogger.Info(ctx, "Using Redis session cache", map[string]interface{}{"addr": cfg.RedisAddr})
	} else {
		sessionCache = cache.NewMemorySessionCache(cfg.SessionCacheTTL)
		appLogger.Info(ctx, "Using in-process session cache", nil)
	}

	pusherClient := realtime.NewClient(cfg)

	tokenValidator := services.NewSessionTokenValidator(sessionRepo, userRepo, roleRepo, sessionCache)
	authorizer := services.NewChannelAuthorizer(tokenValidator, pusherClient)
	eventService := services.NewEventService(pusherClient)

	metrics.Register(prometheus.DefaultRegisterer)

	api := relayapi.NewRelayAPI(authorizer, eventService, tokenValidator)
	httpServer = server.NewHTTPServer(cfg, appLogger, api)

	go func() {
		appLogger.Info(context.Background(), fmt.Sprintf("HTTP server listening on port %s", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(context.Background(), "Failed to start HTTP server", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit

	appLogger.Info(context.Background(), fmt.Sprintf("Received signal: %v. Shutting down server...", receivedSignal))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error(shutdownCtx, "HTTP server shutdown error", err, nil)
		}
	}

	sessionCache.Close()

	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			appLogger.Error(shutdownCtx, "TracerProvider shutdown error", err, nil)
		}
	}

	mongodb.CloseMongoDB(shutdownCtx)

	appLogger.Info(shutdownCtx, "Server gracefully stopped.")
}
