package stats

import (
	"airbook/internal/apperr"
	"airbook/internal/booking"
	"airbook/internal/company"
	"airbook/internal/flight"
	"airbook/internal/identity"
	"context"
	"time"
)

type FlightLister interface {
	ListFlights(ctx context.Context) ([]flight.Flight, error)
	ListFlightsByCompany(ctx context.Context, companyID int64) ([]flight.Flight, error)
}

type BookingLister interface {
	ListBookings(ctx context.Context) ([]booking.Booking, error)
	ListBookingsByCompany(ctx context.Context, companyID int64) ([]booking.Booking, error)
}

type UserLister interface {
	ListUsers(ctx context.Context) ([]identity.User, error)
}

type CompanyStore interface {
	ListCompanies(ctx context.Context) ([]company.Company, error)
}

type CompanyAuthorizer interface {
	Authorize(ctx context.Context, actor identity.Identity, companyID int64) (*company.Company, error)
}

type Service struct {
	flights   FlightLister
	bookings  BookingLister
	users     UserLister
	companies CompanyStore
	auth      CompanyAuthorizer
	now       func() time.Time
}

func NewService(flights FlightLister, bookings BookingLister, users UserLister, companies CompanyStore, auth CompanyAuthorizer) *Service {
	return &Service{
		flights:   flights,
		bookings:  bookings,
		users:     users,
		companies: companies,
		auth:      auth,
		now:       time.Now,
	}
}

func (s *Service) Platform(ctx context.Context, actor identity.Identity, w Window) (*Stats, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}

	var (
		snap Snapshot
		err  error
	)
	if snap.Flights, err = s.flights.ListFlights(ctx); err != nil {
		return nil, err
	}
	if snap.Bookings, err = s.bookings.ListBookings(ctx); err != nil {
		return nil, err
	}
	if snap.Users, err = s.users.ListUsers(ctx); err != nil {
		return nil, err
	}
	if snap.Companies, err = s.companies.ListCompanies(ctx); err != nil {
		return nil, err
	}

	out := Aggregate(snap, w, true, s.now())
	return &out, nil
}

func (s *Service) Company(ctx context.Context, actor identity.Identity, companyID int64, w Window) (*Stats, error) {
	if _, err := s.auth.Authorize(ctx, actor, companyID); err != nil {
		return nil, err
	}

	var (
		snap Snapshot
		err  error
	)
	if snap.Flights, err = s.flights.ListFlightsByCompany(ctx, companyID); err != nil {
		return nil, err
	}
	if snap.Bookings, err = s.bookings.ListBookingsByCompany(ctx, companyID); err != nil {
		return nil, err
	}

	out := Aggregate(snap, w, false, s.now())
	return &out, nil
}
