package main

import (
	"airbook/cfg"
	"airbook/pkg/db"
	"airbook/pkg/logger"
	"flag"
	"log"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of migrating up")
	source := flag.String("source", db.MigrationsSource, "migration source URL")
	flag.Parse()

	// ============
	// Load config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}
	if config.StoreDriver != cfg.StoreDriverPostgres {
		log.Fatalf("migrations need STORE_DRIVER=%s, got %s", cfg.StoreDriverPostgres, config.StoreDriver)
	}

	zlogger := logger.NewZeroLog(config.AppEnv)
	dsn := config.Postgres.DSN()

	// =========
	// Migrate
	// =========
	if *down > 0 {
		if err := db.Rollback(*source, dsn, *down); err != nil {
			log.Fatal(err)
		}
		zlogger.Info("migrations rolled back", logger.Field{Key: "steps", Value: *down})
		return
	}

	if err := db.Migrate(*source, dsn); err != nil {
		log.Fatal(err)
	}
	zlogger.Info("migrations applied", logger.Field{Key: "source", Value: *source})
}
