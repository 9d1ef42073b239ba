package memory

import (
	"airbook/internal/apperr"
	"airbook/internal/booking"
	"airbook/internal/flight"
	"context"
	"sort"
)

func (s *Store) Reserve(ctx context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.codes[b.ConfirmationCode]; taken {
		return booking.ErrDuplicateCode
	}

	f, ok := s.flights[b.FlightID]
	switch {
	case !ok:
		return apperr.NotFound("flight %d not found", b.FlightID)
	case f.Status != flight.StatusScheduled:
		return apperr.Newf(apperr.CodeNotBookable, "flight %s is %s", f.FlightNumber, f.Status)
	case f.AvailableSeats < b.Passengers:
		return apperr.Newf(apperr.CodeInsufficientSeats, "only %d seats left on %s", f.AvailableSeats, f.FlightNumber)
	}

	f.AvailableSeats -= b.Passengers
	s.flights[f.ID] = f

	b.TotalPrice = f.Price * int64(b.Passengers)
	s.bookings[b.ID] = *b
	s.codes[b.ConfirmationCode] = b.ID
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id int64) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, apperr.NotFound("booking %d not found", id)
	}
	return &b, nil
}

func (s *Store) GetBookingByCode(ctx context.Context, code string) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.codes[code]
	if !ok {
		return nil, apperr.NotFound("booking %s not found", code)
	}
	b := s.bookings[id]
	return &b, nil
}

func (s *Store) ListBookingsByUser(ctx context.Context, userID int64) ([]booking.Booking, error) {
	return s.listBookings(func(b booking.Booking) bool { return b.UserID == userID }), nil
}

func (s *Store) ListBookingsByFlight(ctx context.Context, flightID int64) ([]booking.Booking, error) {
	return s.listBookings(func(b booking.Booking) bool { return b.FlightID == flightID }), nil
}

func (s *Store) ListBookingsByCompany(ctx context.Context, companyID int64) ([]booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]booking.Booking, 0)
	for _, b := range s.bookings {
		if f, ok := s.flights[b.FlightID]; ok && f.CompanyID == companyID {
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (s *Store) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	return s.listBookings(func(booking.Booking) bool { return true }), nil
}

func (s *Store) CancelBooking(ctx context.Context, req booking.CancelRequest) (*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[req.BookingID]
	if !ok {
		return nil, apperr.NotFound("booking %d not found", req.BookingID)
	}
	if b.Status != booking.StatusConfirmed {
		return nil, apperr.Newf(apperr.CodeInvalidState, "booking is already %s", b.Status)
	}

	at := req.At
	b.Status = req.Status
	b.CancelledAt = &at
	s.bookings[b.ID] = b

	if req.RestoreSeats {
		if f, ok := s.flights[b.FlightID]; ok {
			f.AvailableSeats = min(f.AvailableSeats+b.Passengers, f.TotalSeats)
			s.flights[f.ID] = f
		}
	}
	return &b, nil
}

func (s *Store) listBookings(keep func(booking.Booking) bool) []booking.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]booking.Booking, 0)
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out
}

func sortBookings(bookings []booking.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].BookedAt.Equal(bookings[j].BookedAt) {
			return bookings[i].BookedAt.Before(bookings[j].BookedAt)
		}
		return bookings[i].ID < bookings[j].ID
	})
}
