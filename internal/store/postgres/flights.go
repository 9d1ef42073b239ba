package postgres

import (
	"airbook/internal/apperr"
	"airbook/internal/flight"
	"airbook/pkg/db"
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	flightColumns = `id, company_id, company_name, flight_number, origin, destination, departure_time,
		arrival_time, duration_minutes, price, available_seats, total_seats, stops, status, created_at`

	insertFlightQuery = `INSERT INTO flights (` + flightColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	selectFlightQuery = `SELECT ` + flightColumns + ` FROM flights WHERE id = $1`

	// Seats are deliberately absent from the SET list.
	updateFlightQuery = `UPDATE flights SET
			price = COALESCE($2, price),
			departure_time = COALESCE($3, departure_time),
			arrival_time = COALESCE($4, arrival_time),
			status = COALESCE($5, status),
			duration_minutes = (EXTRACT(EPOCH FROM (COALESCE($4, arrival_time) - COALESCE($3, departure_time))) / 60)::int
		WHERE id = $1 AND status = 'scheduled'
		RETURNING ` + flightColumns

	flightStatusQuery = `SELECT status FROM flights WHERE id = $1`

	searchFlightsQuery = `SELECT ` + flightColumns + ` FROM flights
		WHERE status = 'scheduled'
			AND ($1 = '' OR origin = $1)
			AND ($2 = '' OR destination = $2)
			AND ($3::timestamptz IS NULL OR departure_time >= $3)
			AND ($4::timestamptz IS NULL OR departure_time < $4)
		ORDER BY departure_time, id`

	listFlightsByCompanyQuery = `SELECT ` + flightColumns + ` FROM flights WHERE company_id = $1 ORDER BY departure_time, id`
	listFlightsQuery          = `SELECT ` + flightColumns + ` FROM flights ORDER BY departure_time, id`

	completeDepartedQuery = `UPDATE flights SET status = 'completed' WHERE status = 'scheduled' AND arrival_time < $1`
)

func scanFlight(row rowScanner) (*flight.Flight, error) {
	var f flight.Flight
	err := row.Scan(
		&f.ID, &f.CompanyID, &f.CompanyName, &f.FlightNumber, &f.Origin, &f.Destination,
		&f.DepartureTime, &f.ArrivalTime, &f.DurationMinutes, &f.Price,
		&f.AvailableSeats, &f.TotalSeats, &f.Stops, &f.Status, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.DepartureTime = f.DepartureTime.UTC()
	f.ArrivalTime = f.ArrivalTime.UTC()
	f.CreatedAt = f.CreatedAt.UTC()
	return &f, nil
}

func (s *Store) CreateFlight(ctx context.Context, f *flight.Flight) error {
	_, err := s.db.ExecContext(ctx, insertFlightQuery,
		f.ID, f.CompanyID, f.CompanyName, f.FlightNumber, f.Origin, f.Destination,
		f.DepartureTime, f.ArrivalTime, f.DurationMinutes, f.Price,
		f.AvailableSeats, f.TotalSeats, f.Stops, string(f.Status), f.CreatedAt,
	)
	if db.IsCheckViolation(err) {
		return apperr.InvalidRequest("flight violates inventory constraints")
	}
	return mapErr(err, "create flight")
}

func (s *Store) GetFlight(ctx context.Context, id int64) (*flight.Flight, error) {
	f, err := scanFlight(s.db.QueryRowContext(ctx, selectFlightQuery, id))
	if err != nil {
		return nil, notFoundOr(err, "get flight", "flight", id)
	}
	return f, nil
}

func (s *Store) UpdateFlight(ctx context.Context, id int64, p flight.Patch) (*flight.Flight, error) {
	var status *string
	if p.Status != nil {
		v := string(*p.Status)
		status = &v
	}

	f, err := scanFlight(s.db.QueryRowContext(ctx, updateFlightQuery, id, p.Price, p.DepartureTime, p.ArrivalTime, status))
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		if db.IsCheckViolation(err) {
			return nil, apperr.InvalidRequest("arrival must be after departure")
		}
		return nil, mapErr(err, "update flight")
	}

	// No row updated: either the flight is gone or it is no longer scheduled.
	var current flight.Status
	if err := s.db.QueryRowContext(ctx, flightStatusQuery, id).Scan(&current); err != nil {
		return nil, notFoundOr(err, "update flight", "flight", id)
	}
	return nil, apperr.Newf(apperr.CodeInvalidState, "flight is %s", current)
}

func (s *Store) SearchFlights(ctx context.Context, q flight.BaseQuery) ([]flight.Flight, error) {
	return s.queryFlights(ctx, "search flights", searchFlightsQuery, q.Origin, q.Destination, q.DepartureFrom, q.DepartureTo)
}

func (s *Store) ListFlightsByCompany(ctx context.Context, companyID int64) ([]flight.Flight, error) {
	return s.queryFlights(ctx, "list company flights", listFlightsByCompanyQuery, companyID)
}

func (s *Store) ListFlights(ctx context.Context) ([]flight.Flight, error) {
	return s.queryFlights(ctx, "list flights", listFlightsQuery)
}

func (s *Store) CompleteDeparted(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, completeDepartedQuery, now)
	if err != nil {
		return 0, mapErr(err, "complete departed flights")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.Unavailable(err, "complete departed flights")
	}
	return n, nil
}

func (s *Store) queryFlights(ctx context.Context, op, query string, args ...any) ([]flight.Flight, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err, op)
	}
	defer rows.Close()

	out := make([]flight.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, mapErr(err, op)
		}
		out = append(out, *f)
	}
	return out, mapErr(rows.Err(), op)
}
