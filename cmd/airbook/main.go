package main

import (
	"airbook/cfg"
	"airbook/internal/booking"
	"airbook/internal/company"
	"airbook/internal/flight"
	"airbook/internal/identity"
	"airbook/internal/stats"
	"airbook/internal/store/memory"
	"airbook/internal/store/postgres"
	"airbook/pkg/cache"
	"airbook/pkg/db"
	"airbook/pkg/idgen"
	"airbook/pkg/logger"
	"airbook/pkg/messaging"
	"airbook/pkg/telemetry"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "airbook/cmd/airbook/docs" // swagger docs

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// store is everything the services need from persistence.
type store interface {
	identity.Store
	company.Store
	flight.Store
	booking.Store
}

// @title           Airbook Flight Booking API
// @version         1.0
// @description     Flight search, seat booking and airline administration.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	// ============
	// Otel
	// ============
	shutdownOtel, err := telemetry.Init(ctx, config.Observability, zlogger)
	if err != nil {
		log.Fatalf("failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(shutdownCtx); err != nil {
			zlogger.Error("failed to shutdown OpenTelemetry", logger.Err(err))
		}
	}()

	// ============
	// Store
	// ============
	st, ping, closeStore, err := openStore(ctx, config, zlogger)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	// ============
	// Cache
	// ============
	redis := cache.NewRedisCache(config.Redis.Addr(), config.Redis.Password)

	// ============
	// Messaging
	// ============
	var publisher messaging.Publisher = messaging.NopPublisher{}
	if config.Kafka.Enabled() {
		publisher = messaging.NewProducer(config.Kafka.Brokers, config.Kafka.BookingTopic)
		zlogger.Info("publishing booking events",
			logger.Field{Key: "topic", Value: config.Kafka.BookingTopic},
		)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			zlogger.Warn("failed to close event publisher", logger.Err(err))
		}
	}()

	// ============
	// Internal Service
	// ============
	ids, err := idgen.NewSnowflakeGenerator(config.SnowflakeNode)
	if err != nil {
		log.Fatal(err)
	}
	tokens := identity.NewTokens(config.Auth.JWTSecret, config.Auth.TokenTTL)

	userSvc := identity.NewService(st, ids, zlogger)
	companySvc := company.NewService(st, ids, zlogger)
	flightSvc := flight.NewService(st, companySvc, redis, config.SearchCacheTTL, ids, zlogger)
	bookingSvc := booking.NewService(st, st, companySvc, ids, zlogger,
		booking.WithPublisher(publisher),
		booking.WithSearchInvalidator(flightSvc),
		booking.WithRestoreSeats(config.Booking.RestoreSeatsOnCancel),
	)
	statsSvc := stats.NewService(st, st, st, st, companySvc)

	// ============
	// HTTP
	// ============
	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(config.Observability.ServiceName))
	r.Use(telemetry.RequestID())
	r.Use(telemetry.TraceLoggerMiddleware(zlogger))
	r.Use(identity.Authenticate(tokens, userSvc, zlogger))

	identity.NewUserHandler(userSvc).RegisterRoutes(r)
	company.NewCompanyHandler(companySvc).RegisterRoutes(r)
	flight.NewFlightHandler(flightSvc).RegisterRoutes(r)
	booking.NewBookingHandler(bookingSvc).RegisterRoutes(r)
	stats.NewStatsHandler(statsSvc).RegisterRoutes(r)
	initSwagger(r)
	initHealth(r, ping)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zlogger.Info("http server listening", logger.Field{Key: "addr", Value: srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlogger.Error("http server failed", logger.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlogger.Error("graceful shutdown failed", logger.Err(err))
	}
}

// openStore builds the configured store. ping backs the health check.
func openStore(ctx context.Context, config *cfg.Config, zlogger logger.Logger) (store, func(context.Context) error, func(), error) {
	if config.StoreDriver == cfg.StoreDriverMemory {
		zlogger.Warn("using in-memory store; data is lost on restart")
		return memory.New(), func(context.Context) error { return nil }, func() {}, nil
	}

	dsn := config.Postgres.DSN()

	// =========
	// Migrate
	// =========
	if err := db.Migrate(db.MigrationsSource, dsn); err != nil {
		return nil, nil, nil, err
	}

	client, err := db.NewSQLClient(ctx, db.DriverPgx, dsn)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			zlogger.Warn("failed to close database", logger.Err(err))
		}
	}
	return postgres.New(client), client.DB().PingContext, closeFn, nil
}

func initHealth(r *gin.Engine, ping func(context.Context) error) {
	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func initSwagger(r *gin.Engine) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		html := `<!DOCTYPE html>
<html>
<head>
    <title>Airbook API Reference</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
    <script id="api-reference" data-url="/swagger/doc.json"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
		c.String(http.StatusOK, html)
	})
}
