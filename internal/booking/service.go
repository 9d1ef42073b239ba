package booking

import (
	"airbook/internal/apperr"
	"airbook/internal/company"
	"airbook/internal/flight"
	"airbook/internal/identity"
	"airbook/pkg/idgen"
	"airbook/pkg/logger"
	"airbook/pkg/messaging"
	"context"
	"errors"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "airbook/internal/booking"
	maxCodeAttempts     = 3
)

// FlightReader is the read side of the inventory the booking engine needs.
type FlightReader interface {
	GetFlight(ctx context.Context, id int64) (*flight.Flight, error)
}

// SearchInvalidator is told whenever seat counts change.
type SearchInvalidator interface {
	InvalidateSearch(ctx context.Context)
}

type CompanyAuthorizer interface {
	Authorize(ctx context.Context, actor identity.Identity, companyID int64) (*company.Company, error)
}

type Service struct {
	store        Store
	flights      FlightReader
	companies    CompanyAuthorizer
	search       SearchInvalidator
	publisher    messaging.Publisher
	ids          idgen.Generator
	logger       logger.Logger
	now          func() time.Time
	restoreSeats bool

	tracer    trace.Tracer
	confirmed metric.Int64Counter
	cancelled metric.Int64Counter
}

type Option func(*Service)

// WithPublisher sends booking events after commit.
func WithPublisher(p messaging.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithRestoreSeats controls whether cancellations return seats to the flight.
func WithRestoreSeats(restore bool) Option {
	return func(s *Service) { s.restoreSeats = restore }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithSearchInvalidator(si SearchInvalidator) Option {
	return func(s *Service) { s.search = si }
}

func NewService(store Store, flights FlightReader, companies CompanyAuthorizer, ids idgen.Generator, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:        store,
		flights:      flights,
		companies:    companies,
		publisher:    messaging.NopPublisher{},
		ids:          ids,
		logger:       log,
		now:          time.Now,
		restoreSeats: true,
		tracer:       otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}

	meter := otel.Meter(instrumentationName)
	var err error
	if s.confirmed, err = meter.Int64Counter("bookings.confirmed",
		metric.WithDescription("Bookings committed"), metric.WithUnit("{booking}")); err != nil {
		log.Warn("failed to create bookings.confirmed counter", logger.Err(err))
	}
	if s.cancelled, err = meter.Int64Counter("bookings.cancelled",
		metric.WithDescription("Bookings cancelled or refunded"), metric.WithUnit("{booking}")); err != nil {
		log.Warn("failed to create bookings.cancelled counter", logger.Err(err))
	}
	return s
}

// Book reserves passengers seats on a flight for the caller.
func (s *Service) Book(ctx context.Context, actor identity.Identity, req BookRequest) (_ *Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "booking.Book", trace.WithAttributes(
		attribute.Int64("flight.id", req.FlightID),
		attribute.Int("booking.passengers", req.Passengers),
	))
	defer func() { endSpan(span, err) }()

	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}
	if actor.IsBlocked() {
		return nil, apperr.New(apperr.CodeUnauthorized, "account is blocked")
	}
	if req.Passengers < 1 {
		return nil, apperr.InvalidRequest("passengers must be at least 1")
	}

	f, err := s.flights.GetFlight(ctx, req.FlightID)
	if err != nil {
		return nil, err
	}
	if f.Status != flight.StatusScheduled {
		return nil, apperr.Newf(apperr.CodeNotBookable, "flight %s is %s", f.FlightNumber, f.Status)
	}

	b := &Booking{
		ID:         s.ids.GenerateID(),
		UserID:     actor.UserID,
		FlightID:   f.ID,
		Passengers: req.Passengers,
		Status:     StatusConfirmed,
		BookedAt:   s.now().UTC(),
	}

	// The availability check above is advisory; Reserve re-checks atomically at commit.
	for attempt := 1; ; attempt++ {
		b.ConfirmationCode = s.ids.ConfirmationCode()
		err = s.store.Reserve(ctx, b)
		if !errors.Is(err, ErrDuplicateCode) || attempt == maxCodeAttempts {
			break
		}
		s.logger.Warn("confirmation code collision, retrying", logger.Field{Key: "attempt", Value: attempt})
	}
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeInsufficientSeats {
			s.logger.Info("booking lost seat race",
				logger.Field{Key: "flight_id", Value: f.ID},
				logger.Field{Key: "passengers", Value: req.Passengers},
			)
		}
		return nil, err
	}

	s.afterCommit(ctx, b)
	s.add(ctx, s.confirmed, b)
	span.SetAttributes(attribute.String("booking.confirmation_code", b.ConfirmationCode))

	s.logger.Info("booking confirmed",
		logger.Field{Key: "booking_id", Value: b.ID},
		logger.Field{Key: "confirmation_code", Value: b.ConfirmationCode},
		logger.Field{Key: "flight_id", Value: b.FlightID},
		logger.Field{Key: "passengers", Value: b.Passengers},
		logger.Field{Key: "total_price", Value: b.TotalPrice},
	)
	return b, nil
}

// Cancel applies the refund policy as of now. Only the owner or an admin may cancel.
func (s *Service) Cancel(ctx context.Context, actor identity.Identity, bookingID int64, now time.Time) (_ *Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "booking.Cancel", trace.WithAttributes(
		attribute.Int64("booking.id", bookingID),
	))
	defer func() { endSpan(span, err) }()

	if !actor.CanBook() {
		if actor.Authenticated() {
			return nil, apperr.New(apperr.CodeUnauthorized, "account is blocked")
		}
		return nil, apperr.ErrUnauthorized
	}

	current, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.UserID != actor.UserID && actor.Role != identity.RoleAdmin {
		return nil, apperr.ErrForbidden
	}
	if current.Status != StatusConfirmed {
		return nil, apperr.Newf(apperr.CodeInvalidState, "booking is already %s", current.Status)
	}

	f, err := s.flights.GetFlight(ctx, current.FlightID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.CancelBooking(ctx, CancelRequest{
		BookingID:    bookingID,
		Status:       CancellationStatus(f.DepartureTime, now),
		At:           now.UTC(),
		RestoreSeats: s.restoreSeats,
	})
	if err != nil {
		return nil, err
	}

	if s.restoreSeats {
		s.afterCommit(ctx, updated)
	} else {
		s.publish(ctx, updated)
	}
	s.add(ctx, s.cancelled, updated)

	s.logger.Info("booking cancelled",
		logger.Field{Key: "booking_id", Value: updated.ID},
		logger.Field{Key: "status", Value: string(updated.Status)},
		logger.Field{Key: "seats_restored", Value: s.restoreSeats},
	)
	return updated, nil
}

// Get returns one booking with its flight to the owner or an admin.
func (s *Service) Get(ctx context.Context, actor identity.Identity, bookingID int64) (*Booking, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}

	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != actor.UserID && actor.Role != identity.RoleAdmin {
		return nil, apperr.ErrForbidden
	}

	f, err := s.flights.GetFlight(ctx, b.FlightID)
	if err != nil && apperr.CodeOf(err) != apperr.CodeNotFound {
		return nil, err
	}
	b.Flight = f
	return b, nil
}

// LookupByConfirmationCode finds a booking by its human-facing code.
func (s *Service) LookupByConfirmationCode(ctx context.Context, code string) (*Booking, error) {
	code = idgen.NormalizeCode(code)
	if code == "" {
		return nil, apperr.InvalidRequest("confirmation code is required")
	}
	return s.store.GetBookingByCode(ctx, code)
}

// ListForUser returns the caller's bookings, newest first, with flight details.
func (s *Service) ListForUser(ctx context.Context, actor identity.Identity) ([]Booking, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}

	bookings, err := s.store.ListBookingsByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	cache := make(map[int64]*flight.Flight)
	for i := range bookings {
		id := bookings[i].FlightID
		f, ok := cache[id]
		if !ok {
			f, err = s.flights.GetFlight(ctx, id)
			if err != nil && apperr.CodeOf(err) != apperr.CodeNotFound {
				return nil, err
			}
			cache[id] = f
		}
		bookings[i].Flight = f
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].BookedAt.After(bookings[j].BookedAt)
	})
	return bookings, nil
}

// ListForFlight returns a flight's bookings to its company manager or an admin.
func (s *Service) ListForFlight(ctx context.Context, actor identity.Identity, flightID int64) ([]Booking, error) {
	f, err := s.flights.GetFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if _, err := s.companies.Authorize(ctx, actor, f.CompanyID); err != nil {
		return nil, err
	}
	return s.store.ListBookingsByFlight(ctx, flightID)
}

// ListForCompany returns bookings across all of a company's flights.
func (s *Service) ListForCompany(ctx context.Context, actor identity.Identity, companyID int64) ([]Booking, error) {
	if _, err := s.companies.Authorize(ctx, actor, companyID); err != nil {
		return nil, err
	}
	return s.store.ListBookingsByCompany(ctx, companyID)
}

// afterCommit runs the post-commit confirm step for a seat-changing transition.
func (s *Service) afterCommit(ctx context.Context, b *Booking) {
	if s.search != nil {
		s.search.InvalidateSearch(ctx)
	}
	s.publish(ctx, b)
}

// publish is best effort; the booking is already durable.
func (s *Service) publish(ctx context.Context, b *Booking) {
	evt := newEvent(b, s.now().UTC())
	if err := s.publisher.Publish(context.WithoutCancel(ctx), b.ConfirmationCode, evt); err != nil {
		s.logger.Warn("failed to publish booking event",
			logger.Err(err),
			logger.Field{Key: "event_type", Value: evt.Type},
			logger.Field{Key: "booking_id", Value: b.ID},
		)
	}
}

func (s *Service) add(ctx context.Context, counter metric.Int64Counter, b *Booking) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(b.Status))))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperr.CodeOf(err)))
	}
	span.End()
}
