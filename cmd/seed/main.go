package main

import (
	"airbook/cfg"
	"airbook/internal/company"
	"airbook/internal/flight"
	"airbook/internal/identity"
	"airbook/internal/store/postgres"
	"airbook/pkg/db"
	"airbook/pkg/idgen"
	"airbook/pkg/logger"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type seedCompany struct {
	company.CreateInput `yaml:",inline"`
	Manager             string `yaml:"manager"`
}

type seedFlight struct {
	flight.CreateInput `yaml:",inline"`
	Company            string `yaml:"company"`
}

type fixture struct {
	Users     []identity.CreateUserInput `yaml:"users"`
	Companies []seedCompany              `yaml:"companies"`
	Flights   []seedFlight               `yaml:"flights"`
}

func loadFixture(r io.Reader) (*fixture, error) {
	var f fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}

	hasAdmin := false
	for _, u := range f.Users {
		if u.Role == identity.RoleAdmin {
			hasAdmin = true
			break
		}
	}
	if !hasAdmin {
		return nil, errors.New("fixture needs at least one admin user")
	}
	return &f, nil
}

type seeder struct {
	users     *identity.Service
	companies *company.Service
	flights   *flight.Service
	tokens    *identity.Tokens
	out       io.Writer
}

func (s *seeder) run(ctx context.Context, f *fixture) error {
	var admin identity.Identity
	byEmail := make(map[string]int64, len(f.Users))

	for _, in := range f.Users {
		u, err := s.users.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("user %s: %w", in.Email, err)
		}
		byEmail[u.Email] = u.ID
		if u.Role == identity.RoleAdmin && !admin.Authenticated() {
			admin = u.Identity()
		}

		token, err := s.tokens.Issue(u.ID)
		if err != nil {
			return fmt.Errorf("token for %s: %w", u.Email, err)
		}
		fmt.Fprintf(s.out, "%-8s %-28s %s\n", u.Role, u.Email, token)
	}

	byCode := make(map[string]int64, len(f.Companies))
	for _, sc := range f.Companies {
		in := sc.CreateInput
		if sc.Manager != "" {
			id, ok := byEmail[strings.ToLower(sc.Manager)]
			if !ok {
				return fmt.Errorf("company %s: unknown manager %s", sc.Code, sc.Manager)
			}
			in.ManagerID = id
		}
		c, err := s.companies.Create(ctx, admin, in)
		if err != nil {
			return fmt.Errorf("company %s: %w", sc.Code, err)
		}
		byCode[c.Code] = c.ID
	}

	for _, sf := range f.Flights {
		in := sf.CreateInput
		id, ok := byCode[strings.ToUpper(sf.Company)]
		if !ok {
			return fmt.Errorf("flight %s: unknown company %s", sf.FlightNumber, sf.Company)
		}
		in.CompanyID = id
		if _, err := s.flights.Create(ctx, admin, in); err != nil {
			return fmt.Errorf("flight %s: %w", sf.FlightNumber, err)
		}
	}
	return nil
}

func main() {
	path := flag.String("file", "db/seed/fixtures.yaml", "YAML fixture to load")
	flag.Parse()

	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}
	if config.StoreDriver != cfg.StoreDriverPostgres {
		log.Fatalf("seeding needs STORE_DRIVER=%s", cfg.StoreDriverPostgres)
	}
	zlogger := logger.NewZeroLog(config.AppEnv)
	ctx := context.Background()

	file, err := os.Open(*path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	fx, err := loadFixture(file)
	if err != nil {
		log.Fatal(err)
	}

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
	companySvc := company.NewService(st, ids, zlogger)

	s := &seeder{
		users:     identity.NewService(st, ids, zlogger),
		companies: companySvc,
		// No cache here; the API's cached searches expire on their own TTL.
		flights: flight.NewService(st, companySvc, nil, 0, ids, zlogger),
		tokens:  identity.NewTokens(config.Auth.JWTSecret, config.Auth.TokenTTL),
		out:     os.Stdout,
	}
	if err := s.run(ctx, fx); err != nil {
		log.Fatal(err)
	}
	zlogger.Info("seed complete",
		logger.Field{Key: "users", Value: len(fx.Users)},
		logger.Field{Key: "companies", Value: len(fx.Companies)},
		logger.Field{Key: "flights", Value: len(fx.Flights)},
	)
}
