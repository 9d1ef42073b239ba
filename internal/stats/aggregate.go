package stats

import (
	"airbook/internal/booking"
	"airbook/internal/company"
	"airbook/internal/flight"
	"airbook/internal/identity"
	"fmt"
	"time"
)

type Window string

const (
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

func ParseWindow(raw string) (Window, error) {
	switch w := Window(raw); w {
	case WindowToday, WindowWeek, WindowMonth, WindowAll:
		return w, nil
	case "":
		return WindowAll, nil
	default:
		return "", fmt.Errorf("unknown window %q", raw)
	}
}

// Start returns the inclusive lower bound of w, in UTC. WindowAll has no bound.
func (w Window) Start(now time.Time) time.Time {
	now = now.UTC()
	switch w {
	case WindowToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	case WindowMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

// Snapshot is the data an aggregation reads. Users and Companies are only used for platform scope.
type Snapshot struct {
	Flights   []flight.Flight
	Bookings  []booking.Booking
	Users     []identity.User
	Companies []company.Company
}

type Stats struct {
	Window              Window `json:"window"`
	TotalFlights        int    `json:"total_flights"`
	ActiveFlights       int    `json:"active_flights"`
	CompletedFlights    int    `json:"completed_flights"`
	CancelledFlights    int    `json:"cancelled_flights"`
	TotalBookings       int    `json:"total_bookings"`
	TotalPassengers     int    `json:"total_passengers"`
	TotalRevenue        int64  `json:"total_revenue"`
	AverageBookingValue int64  `json:"average_booking_value"`
	CancelledBookings   int    `json:"cancelled_bookings"`
	RefundedBookings    int    `json:"refunded_bookings"`

	Platform *PlatformTotals `json:"platform,omitempty"`
}

type PlatformTotals struct {
	TotalUsers      int `json:"total_users"`
	BlockedUsers    int `json:"blocked_users"`
	TotalCompanies  int `json:"total_companies"`
	ActiveCompanies int `json:"active_companies"`
}

// Aggregate is a pure function of the snapshot. Revenue counts confirmed bookings only.
func Aggregate(snap Snapshot, w Window, platform bool, now time.Time) Stats {
	start := w.Start(now)
	in := func(t time.Time) bool { return !t.Before(start) }

	s := Stats{Window: w}

	for _, f := range snap.Flights {
		if !in(f.CreatedAt) {
			continue
		}
		s.TotalFlights++
		switch f.Status {
		case flight.StatusScheduled:
			s.ActiveFlights++
		case flight.StatusCompleted:
			s.CompletedFlights++
		case flight.StatusCancelled:
			s.CancelledFlights++
		}
	}

	for _, b := range snap.Bookings {
		if !in(b.BookedAt) {
			continue
		}
		switch b.Status {
		case booking.StatusConfirmed:
			s.TotalBookings++
			s.TotalPassengers += b.Passengers
			s.TotalRevenue += b.TotalPrice
		case booking.StatusCancelled:
			s.CancelledBookings++
		case booking.StatusRefunded:
			s.RefundedBookings++
		}
	}

	if s.TotalBookings > 0 {
		s.AverageBookingValue = s.TotalRevenue / int64(s.TotalBookings)
	}

	if platform {
		p := &PlatformTotals{TotalUsers: len(snap.Users), TotalCompanies: len(snap.Companies)}
		for _, u := range snap.Users {
			if u.Blocked {
				p.BlockedUsers++
			}
		}
		for _, c := range snap.Companies {
			if c.Active {
				p.ActiveCompanies++
			}
		}
		s.Platform = p
	}

	return s
}
