package flight

import (
	"airbook/internal/apperr"
	"airbook/internal/company"
	"airbook/internal/identity"
	"airbook/pkg/cache"
	"airbook/pkg/idgen"
	"airbook/pkg/logger"
	"context"
	"strings"
	"time"
)

// CompanyAuthorizer resolves whether an identity may manage a company's flights.
type CompanyAuthorizer interface {
	Authorize(ctx context.Context, actor identity.Identity, companyID int64) (*company.Company, error)
}

type Service struct {
	store     Store
	companies CompanyAuthorizer
	cache     cache.Cache
	ttl       time.Duration
	ids       idgen.Generator
	logger    logger.Logger
	now       func() time.Time
}

// NewService wires the inventory. A nil cache or a zero ttl disables search caching.
func NewService(store Store, companies CompanyAuthorizer, c cache.Cache, ttl time.Duration, ids idgen.Generator, log logger.Logger) *Service {
	return &Service{
		store:     store,
		companies: companies,
		cache:     c,
		ttl:       ttl,
		ids:       ids,
		logger:    log,
		now:       time.Now,
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*Flight, error) {
	return s.store.GetFlight(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor identity.Identity, in CreateInput) (*Flight, error) {
	co, err := s.companies.Authorize(ctx, actor, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	f := &Flight{
		ID:              s.ids.GenerateID(),
		CompanyID:       co.ID,
		CompanyName:     co.Name,
		FlightNumber:    in.FlightNumber,
		Origin:          in.Origin,
		Destination:     in.Destination,
		DepartureTime:   in.DepartureTime.UTC(),
		ArrivalTime:     in.ArrivalTime.UTC(),
		DurationMinutes: durationMinutes(in.DepartureTime, in.ArrivalTime),
		Price:           in.Price,
		AvailableSeats:  in.TotalSeats,
		TotalSeats:      in.TotalSeats,
		Stops:           in.Stops,
		Status:          StatusScheduled,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.store.CreateFlight(ctx, f); err != nil {
		return nil, err
	}

	s.InvalidateSearch(ctx)
	s.logger.Info("flight created",
		logger.Field{Key: "flight_id", Value: f.ID},
		logger.Field{Key: "flight_number", Value: f.FlightNumber},
		logger.Field{Key: "company_id", Value: f.CompanyID},
	)
	return f, nil
}

func validateCreate(in *CreateInput) error {
	in.FlightNumber = strings.ToUpper(strings.TrimSpace(in.FlightNumber))
	in.Origin = strings.TrimSpace(in.Origin)
	in.Destination = strings.TrimSpace(in.Destination)

	switch {
	case in.FlightNumber == "":
		return apperr.InvalidRequest("flight number is required")
	case in.Origin == "" || in.Destination == "":
		return apperr.InvalidRequest("origin and destination are required")
	case strings.EqualFold(in.Origin, in.Destination):
		return apperr.InvalidRequest("origin and destination must differ")
	case !in.ArrivalTime.After(in.DepartureTime):
		return apperr.InvalidRequest("arrival must be after departure")
	case in.Price < 0:
		return apperr.InvalidRequest("price must not be negative")
	case in.TotalSeats <= 0:
		return apperr.InvalidRequest("total seats must be positive")
	case in.Stops < 0:
		return apperr.InvalidRequest("stops must not be negative")
	}
	return nil
}

// Update applies a manager edit. Seat counts are never changed here.
func (s *Service) Update(ctx context.Context, actor identity.Identity, id int64, p Patch) (*Flight, error) {
	current, err := s.store.GetFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.companies.Authorize(ctx, actor, current.CompanyID); err != nil {
		return nil, err
	}
	if p.Empty() {
		return nil, apperr.InvalidRequest("nothing to update")
	}
	if current.Status.Terminal() {
		return nil, apperr.Newf(apperr.CodeInvalidState, "flight is %s", current.Status)
	}
	if err := validatePatch(current, p); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateFlight(ctx, id, p)
	if err != nil {
		return nil, err
	}

	s.InvalidateSearch(ctx)
	s.logger.Info("flight updated",
		logger.Field{Key: "flight_id", Value: id},
		logger.Field{Key: "status", Value: string(updated.Status)},
		logger.Field{Key: "actor_id", Value: actor.UserID},
	)
	return updated, nil
}

func validatePatch(current *Flight, p Patch) error {
	if p.Price != nil && *p.Price < 0 {
		return apperr.InvalidRequest("price must not be negative")
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return apperr.InvalidRequest("invalid status %q", *p.Status)
		}
		if *p.Status == StatusScheduled {
			return apperr.InvalidRequest("status can only move to completed or cancelled")
		}
	}

	dep, arr := current.DepartureTime, current.ArrivalTime
	if p.DepartureTime != nil {
		dep = *p.DepartureTime
	}
	if p.ArrivalTime != nil {
		arr = *p.ArrivalTime
	}
	if !arr.After(dep) {
		return apperr.InvalidRequest("arrival must be after departure")
	}
	return nil
}

// Cancel withdraws a flight from sale.
func (s *Service) Cancel(ctx context.Context, actor identity.Identity, id int64) (*Flight, error) {
	status := StatusCancelled
	return s.Update(ctx, actor, id, Patch{Status: &status})
}

func (s *Service) ListByCompany(ctx context.Context, actor identity.Identity, companyID int64) ([]Flight, error) {
	if _, err := s.companies.Authorize(ctx, actor, companyID); err != nil {
		return nil, err
	}
	return s.store.ListFlightsByCompany(ctx, companyID)
}

// CompleteDeparted closes out flights that have already arrived.
func (s *Service) CompleteDeparted(ctx context.Context) (int64, error) {
	n, err := s.store.CompleteDeparted(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.InvalidateSearch(ctx)
		s.logger.Info("flights completed", logger.Field{Key: "count", Value: n})
	}
	return n, nil
}
