package postgres

import (
	"airbook/internal/apperr"
	"airbook/internal/booking"
	"airbook/internal/flight"
	"airbook/pkg/db"
	"context"
	"database/sql"
	"errors"
)

const (
	bookingColumns = `id, confirmation_code, user_id, flight_id, passengers, total_price, status, booked_at, cancelled_at`

	// The WHERE clause is re-evaluated after the row lock is taken, so concurrent
	// bookers can never drive available_seats below zero.
	reserveSeatsQuery = `UPDATE flights SET available_seats = available_seats - $2
		WHERE id = $1 AND status = 'scheduled' AND available_seats >= $2
		RETURNING price`

	seatStateQuery = `SELECT flight_number, status, available_seats FROM flights WHERE id = $1`

	insertBookingQuery = `INSERT INTO bookings (` + bookingColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	selectBookingQuery       = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	selectBookingByCodeQuery = `SELECT ` + bookingColumns + ` FROM bookings WHERE confirmation_code = $1`
	listBookingsByUserQuery  = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY booked_at, id`
	listBookingsByFlight     = `SELECT ` + bookingColumns + ` FROM bookings WHERE flight_id = $1 ORDER BY booked_at, id`
	listBookingsQuery        = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY booked_at, id`

	listBookingsByCompanyQuery = `SELECT b.id, b.confirmation_code, b.user_id, b.flight_id, b.passengers,
			b.total_price, b.status, b.booked_at, b.cancelled_at
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		WHERE f.company_id = $1
		ORDER BY b.booked_at, b.id`

	cancelBookingQuery = `UPDATE bookings SET status = $2, cancelled_at = $3
		WHERE id = $1 AND status = 'confirmed'
		RETURNING ` + bookingColumns

	bookingStatusQuery = `SELECT status FROM bookings WHERE id = $1`

	restoreSeatsQuery = `UPDATE flights SET available_seats = LEAST(total_seats, available_seats + $2) WHERE id = $1`
)

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		b           booking.Booking
		cancelledAt sql.NullTime
	)
	err := row.Scan(&b.ID, &b.ConfirmationCode, &b.UserID, &b.FlightID, &b.Passengers,
		&b.TotalPrice, &b.Status, &b.BookedAt, &cancelledAt)
	if err != nil {
		return nil, err
	}
	b.BookedAt = b.BookedAt.UTC()
	if cancelledAt.Valid {
		t := cancelledAt.Time.UTC()
		b.CancelledAt = &t
	}
	return &b, nil
}

func (s *Store) Reserve(ctx context.Context, b *booking.Booking) error {
	err := s.db.WithTransaction(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sql.Tx) error {
		var price int64
		err := tx.QueryRowContext(ctx, reserveSeatsQuery, b.FlightID, b.Passengers).Scan(&price)
		if errors.Is(err, sql.ErrNoRows) {
			return classifyReserveFailure(ctx, tx, b)
		}
		if err != nil {
			return err
		}

		total := price * int64(b.Passengers)
		_, err = tx.ExecContext(ctx, insertBookingQuery,
			b.ID, b.ConfirmationCode, b.UserID, b.FlightID, b.Passengers,
			total, string(b.Status), b.BookedAt, nil,
		)
		if db.IsUniqueViolation(err, "bookings_confirmation_code_key") {
			return booking.ErrDuplicateCode
		}
		if err != nil {
			return err
		}

		b.TotalPrice = total
		return nil
	})
	return mapErr(err, "reserve seats")
}

// classifyReserveFailure explains why the conditional decrement matched no row.
func classifyReserveFailure(ctx context.Context, tx *sql.Tx, b *booking.Booking) error {
	var (
		number    string
		status    flight.Status
		available int
	)
	err := tx.QueryRowContext(ctx, seatStateQuery, b.FlightID).Scan(&number, &status, &available)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("flight %d not found", b.FlightID)
	case err != nil:
		return err
	case status != flight.StatusScheduled:
		return apperr.Newf(apperr.CodeNotBookable, "flight %s is %s", number, status)
	default:
		return apperr.Newf(apperr.CodeInsufficientSeats, "only %d seats left on %s", available, number)
	}
}

func (s *Store) GetBooking(ctx context.Context, id int64) (*booking.Booking, error) {
	b, err := scanBooking(s.db.QueryRowContext(ctx, selectBookingQuery, id))
	if err != nil {
		return nil, notFoundOr(err, "get booking", "booking", id)
	}
	return b, nil
}

func (s *Store) GetBookingByCode(ctx context.Context, code string) (*booking.Booking, error) {
	b, err := scanBooking(s.db.QueryRowContext(ctx, selectBookingByCodeQuery, code))
	if err != nil {
		return nil, notFoundOr(err, "get booking by code", "booking", code)
	}
	return b, nil
}

func (s *Store) ListBookingsByUser(ctx context.Context, userID int64) ([]booking.Booking, error) {
	return s.queryBookings(ctx, "list user bookings", listBookingsByUserQuery, userID)
}

func (s *Store) ListBookingsByFlight(ctx context.Context, flightID int64) ([]booking.Booking, error) {
	return s.queryBookings(ctx, "list flight bookings", listBookingsByFlight, flightID)
}

func (s *Store) ListBookingsByCompany(ctx context.Context, companyID int64) ([]booking.Booking, error) {
	return s.queryBookings(ctx, "list company bookings", listBookingsByCompanyQuery, companyID)
}

func (s *Store) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	return s.queryBookings(ctx, "list bookings", listBookingsQuery)
}

func (s *Store) CancelBooking(ctx context.Context, req booking.CancelRequest) (*booking.Booking, error) {
	var updated *booking.Booking

	err := s.db.WithTransaction(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sql.Tx) error {
		b, err := scanBooking(tx.QueryRowContext(ctx, cancelBookingQuery, req.BookingID, string(req.Status), req.At))
		if errors.Is(err, sql.ErrNoRows) {
			var current booking.Status
			if err := tx.QueryRowContext(ctx, bookingStatusQuery, req.BookingID).Scan(&current); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return apperr.NotFound("booking %d not found", req.BookingID)
				}
				return err
			}
			return apperr.Newf(apperr.CodeInvalidState, "booking is already %s", current)
		}
		if err != nil {
			return err
		}

		if req.RestoreSeats {
			if _, err := tx.ExecContext(ctx, restoreSeatsQuery, b.FlightID, b.Passengers); err != nil {
				return err
			}
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, mapErr(err, "cancel booking")
	}
	return updated, nil
}

func (s *Store) queryBookings(ctx context.Context, op, query string, args ...any) ([]booking.Booking, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err, op)
	}
	defer rows.Close()

	out := make([]booking.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, mapErr(err, op)
		}
		out = append(out, *b)
	}
	return out, mapErr(rows.Err(), op)
}
