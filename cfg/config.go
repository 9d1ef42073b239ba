package cfg

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type PostgresConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

// DSN is the URL form accepted by both pgx and golang-migrate.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type KafkaConfig struct {
	Brokers      []string
	BookingTopic string
	GroupID      string
}

// Enabled reports whether booking events should be published.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type ObservabilityConfig struct {
	ServiceName  string
	OTLPEndpoint string
	Environment  string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type BookingConfig struct {
	RestoreSeatsOnCancel bool
}

type Config struct {
	AppEnv         string
	AppPort        string
	StoreDriver    string
	SnowflakeNode  int64
	SearchCacheTTL time.Duration
	SweepInterval  time.Duration
	Postgres       PostgresConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
	Observability  ObservabilityConfig
	Auth           AuthConfig
	Booking        BookingConfig
}

func Load() (*Config, error) {
	var errs []error

	// .env is optional; real deployments inject the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	appEnv := envOr("APP_ENV", "development")
	appPort := envOr("APP_PORT", "8080")
	storeDriver := envOr("STORE_DRIVER", StoreDriverPostgres)
	if storeDriver != StoreDriverPostgres && storeDriver != StoreDriverMemory {
		errs = append(errs, errors.New("invalid env: STORE_DRIVER must be postgres or memory"))
	}

	var pg PostgresConfig
	if storeDriver == StoreDriverPostgres {
		pg = PostgresConfig{
			User:     mustEnv("POSTGRES_USER", &errs),
			Password: mustEnv("POSTGRES_PASSWORD", &errs),
			Host:     mustEnv("POSTGRES_HOST", &errs),
			Port:     mustEnv("POSTGRES_PORT", &errs),
			DBName:   mustEnv("POSTGRES_DB", &errs),
			SSLMode:  envOr("POSTGRES_SSLMODE", "disable"),
		}
	}

	redisHost := mustEnv("REDIS_HOST", &errs)
	redisPort := mustEnv("REDIS_PORT", &errs)
	redisPassword := envOr("REDIS_PASSWORD", "")

	jwtSecret := mustEnv("JWT_SECRET", &errs)

	cacheTTLSeconds := intEnv("SEARCH_CACHE_TTL_SECONDS", 30, &errs)
	sweepSeconds := intEnv("SWEEP_INTERVAL_SECONDS", 60, &errs)
	if sweepSeconds <= 0 {
		errs = append(errs, errors.New("invalid env: SWEEP_INTERVAL_SECONDS must be positive"))
	}
	tokenTTLHours := intEnv("JWT_TTL_HOURS", 24, &errs)
	nodeID := intEnv("SNOWFLAKE_NODE_ID", 1, &errs)
	if nodeID < 0 || nodeID > 1023 {
		errs = append(errs, errors.New("invalid env: SNOWFLAKE_NODE_ID must be in 0..1023"))
	}

	restoreSeats, err := strconv.ParseBool(envOr("BOOKING_RESTORE_SEATS", "true"))
	if err != nil {
		errs = append(errs, errors.New("conversion failed env: "+"BOOKING_RESTORE_SEATS"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:         appEnv,
		AppPort:        appPort,
		StoreDriver:    storeDriver,
		SnowflakeNode:  int64(nodeID),
		SearchCacheTTL: time.Duration(cacheTTLSeconds) * time.Second,
		SweepInterval:  time.Duration(sweepSeconds) * time.Second,
		Postgres:       pg,
		Redis: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: redisPassword,
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(os.Getenv("KAFKA_BROKERS")),
			BookingTopic: envOr("KAFKA_BOOKING_TOPIC", "booking-events"),
			GroupID:      envOr("KAFKA_GROUP_ID", "airbook-worker"),
		},
		Observability: ObservabilityConfig{
			ServiceName:  envOr("OTEL_SERVICE_NAME", "airbook"),
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Environment:  appEnv,
		},
		Auth: AuthConfig{
			JWTSecret: jwtSecret,
			TokenTTL:  time.Duration(tokenTTLHours) * time.Hour,
		},
		Booking: BookingConfig{
			RestoreSeatsOnCancel: restoreSeats,
		},
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int, errs *[]error) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
