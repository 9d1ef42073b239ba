// Package memory is a process-local Persistent Store. One mutex serializes every
// write, so seat checks and decrements are linearizable per flight.
package memory

import (
	"airbook/internal/booking"
	"airbook/internal/company"
	"airbook/internal/flight"
	"airbook/internal/identity"
	"sync"
)

type Store struct {
	mu        sync.RWMutex
	users     map[int64]identity.User
	companies map[int64]company.Company
	flights   map[int64]flight.Flight
	bookings  map[int64]booking.Booking
	codes     map[string]int64
}

var (
	_ identity.Store = (*Store)(nil)
	_ company.Store  = (*Store)(nil)
	_ flight.Store   = (*Store)(nil)
	_ booking.Store  = (*Store)(nil)
)

func New() *Store {
	return &Store{
		users:     make(map[int64]identity.User),
		companies: make(map[int64]company.Company),
		flights:   make(map[int64]flight.Flight),
		bookings:  make(map[int64]booking.Booking),
		codes:     make(map[string]int64),
	}
}
