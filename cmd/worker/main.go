package main

import (
	"airbook/cfg"
	"airbook/internal/booking"
	"airbook/internal/company"
	"airbook/internal/flight"
	"airbook/internal/store/postgres"
	"airbook/pkg/cache"
	"airbook/pkg/db"
	"airbook/pkg/idgen"
	"airbook/pkg/logger"
	"airbook/pkg/messaging"
	"airbook/pkg/telemetry"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
)

// The worker runs the background loops: the booking event consumer and the
// sweeper that completes flights which have already arrived.
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
	if config.StoreDriver != cfg.StoreDriverPostgres {
		log.Fatalf("worker needs STORE_DRIVER=%s; the memory store is private to the API process", cfg.StoreDriverPostgres)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv).With(logger.Field{Key: "process", Value: "worker"})

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
	client, err := db.NewSQLClient(ctx, db.DriverPgx, config.Postgres.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()
	st := postgres.New(client)

	ids, err := idgen.NewSnowflakeGenerator(config.SnowflakeNode)
	if err != nil {
		log.Fatal(err)
	}
	redis := cache.NewRedisCache(config.Redis.Addr(), config.Redis.Password)
	flightSvc := flight.NewService(st, company.NewService(st, ids, zlogger), redis, config.SearchCacheTTL, ids, zlogger)

	var wg sync.WaitGroup

	// ============
	// Sweeper
	// ============
	wg.Add(1)
	go func() {
		defer wg.Done()
		runSweeper(ctx, flightSvc, config.SweepInterval, zlogger)
	}()

	// ============
	// Consumer
	// ============
	if config.Kafka.Enabled() {
		consumer := messaging.NewConsumer(config.Kafka.Brokers, config.Kafka.GroupID, config.Kafka.BookingTopic)
		defer consumer.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Consume(ctx, bookingEventHandler(zlogger)); err != nil {
				zlogger.Error("booking event consumer stopped", logger.Err(err))
				stop()
			}
		}()
	} else {
		zlogger.Info("KAFKA_BROKERS not set; booking event consumer disabled")
	}

	<-ctx.Done()
	zlogger.Info("shutting down worker")
	wg.Wait()
}

type completer interface {
	CompleteDeparted(ctx context.Context) (int64, error)
}

func runSweeper(ctx context.Context, flights completer, interval time.Duration, zlogger logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := flights.CompleteDeparted(ctx); err != nil {
				zlogger.Error("completion sweep failed", logger.Err(err))
			}
		}
	}
}

// bookingEventHandler records booking events. Malformed payloads are logged and skipped
// so one bad message cannot wedge the partition.
func bookingEventHandler(zlogger logger.Logger) messaging.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var evt booking.Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			zlogger.Warn("skipping malformed booking event",
				logger.Err(err),
				logger.Field{Key: "offset", Value: msg.Offset},
			)
			return nil
		}

		zlogger.Info("booking event",
			logger.Field{Key: "type", Value: evt.Type},
			logger.Field{Key: "confirmation_code", Value: evt.ConfirmationCode},
			logger.Field{Key: "booking_id", Value: fmt.Sprint(evt.BookingID)},
			logger.Field{Key: "passengers", Value: evt.Passengers},
			logger.Field{Key: "total_price", Value: evt.TotalPrice},
			logger.Field{Key: "occurred_at", Value: evt.OccurredAt},
		)
		return nil
	}
}
