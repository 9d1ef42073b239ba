package booking

import (
	"airbook/internal/flight"
	"context"
	"errors"
	"time"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

// RefundWindow is how long before departure a cancellation still earns a refund.
const RefundWindow = 24 * time.Hour

type Booking struct {
	ID               int64          `json:"id,string"`
	ConfirmationCode string         `json:"confirmation_code"`
	UserID           int64          `json:"user_id,string"`
	FlightID         int64          `json:"flight_id,string"`
	Passengers       int            `json:"passengers"`
	TotalPrice       int64          `json:"total_price"`
	Status           Status         `json:"status"`
	BookedAt         time.Time      `json:"booked_at"`
	CancelledAt      *time.Time     `json:"cancelled_at,omitempty"`
	Flight           *flight.Flight `json:"flight,omitempty"`
}

// ErrDuplicateCode is returned by Store.Reserve when the confirmation code is taken.
var ErrDuplicateCode = errors.New("booking: duplicate confirmation code")

// CancelRequest is the atomic terminal transition handed to the store.
type CancelRequest struct {
	BookingID    int64
	Status       Status
	At           time.Time
	RestoreSeats bool
}

// Store is the only writer of booking records.
type Store interface {
	// Reserve decrements seats when the flight is scheduled with enough seats left and
	// inserts b, in one transaction. It sets b.TotalPrice from the committed price.
	Reserve(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, id int64) (*Booking, error)
	GetBookingByCode(ctx context.Context, code string) (*Booking, error)
	ListBookingsByUser(ctx context.Context, userID int64) ([]Booking, error)
	ListBookingsByFlight(ctx context.Context, flightID int64) ([]Booking, error)
	ListBookingsByCompany(ctx context.Context, companyID int64) ([]Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error)
	// CancelBooking moves a confirmed booking to a terminal status and optionally
	// returns its seats, capped at total seats. Non-confirmed bookings yield INVALID_STATE.
	CancelBooking(ctx context.Context, req CancelRequest) (*Booking, error)
}

type BookRequest struct {
	FlightID   int64 `json:"flight_id,string" binding:"required"`
	Passengers int   `json:"passengers"`
}

// Event is published after a booking commits or reaches a terminal status.
type Event struct {
	Type             string    `json:"type"`
	BookingID        int64     `json:"booking_id,string"`
	ConfirmationCode string    `json:"confirmation_code"`
	UserID           int64     `json:"user_id,string"`
	FlightID         int64     `json:"flight_id,string"`
	Passengers       int       `json:"passengers"`
	TotalPrice       int64     `json:"total_price"`
	Status           Status    `json:"status"`
	OccurredAt       time.Time `json:"occurred_at"`
}

const (
	EventConfirmed = "booking.confirmed"
	EventCancelled = "booking.cancelled"
	EventRefunded  = "booking.refunded"
)

func newEvent(b *Booking, at time.Time) Event {
	typ := EventConfirmed
	switch b.Status {
	case StatusCancelled:
		typ = EventCancelled
	case StatusRefunded:
		typ = EventRefunded
	}
	return Event{
		Type:             typ,
		BookingID:        b.ID,
		ConfirmationCode: b.ConfirmationCode,
		UserID:           b.UserID,
		FlightID:         b.FlightID,
		Passengers:       b.Passengers,
		TotalPrice:       b.TotalPrice,
		Status:           b.Status,
		OccurredAt:       at,
	}
}

// CancellationStatus applies the refund policy: at least RefundWindow before departure refunds.
func CancellationStatus(departure, now time.Time) Status {
	if departure.Sub(now) >= RefundWindow {
		return StatusRefunded
	}
	return StatusCancelled
}
