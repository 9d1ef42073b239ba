package flight

import (
	"context"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses accept no further edits.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Flight is one scheduled service. Prices are in minor currency units.
type Flight struct {
	ID              int64     `json:"id,string"`
	CompanyID       int64     `json:"company_id,string"`
	CompanyName     string    `json:"company_name"`
	FlightNumber    string    `json:"flight_number"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	DepartureTime   time.Time `json:"departure_time"`
	ArrivalTime     time.Time `json:"arrival_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           int64     `json:"price"`
	AvailableSeats  int       `json:"available_seats"`
	TotalSeats      int       `json:"total_seats"`
	Stops           int       `json:"stops"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// Bookable reports whether the flight is scheduled with at least n free seats.
func (f Flight) Bookable(n int) bool {
	return f.Status == StatusScheduled && f.AvailableSeats >= n
}

func durationMinutes(dep, arr time.Time) int {
	return int(arr.Sub(dep) / time.Minute)
}

// BaseQuery is the store-level part of a search: route, day window and status scheduled.
type BaseQuery struct {
	Origin        string
	Destination   string
	DepartureFrom *time.Time
	DepartureTo   *time.Time
}

// Patch is a manager edit. Nil fields are left unchanged; seats are never touched.
type Patch struct {
	Price         *int64     `json:"price,omitempty"`
	DepartureTime *time.Time `json:"departure_time,omitempty"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
	Status        *Status    `json:"status,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Price == nil && p.DepartureTime == nil && p.ArrivalTime == nil && p.Status == nil
}

// Store is the inventory store. Missing flights yield an apperr NOT_FOUND.
type Store interface {
	CreateFlight(ctx context.Context, f *Flight) error
	GetFlight(ctx context.Context, id int64) (*Flight, error)
	// UpdateFlight applies p only while the flight is still scheduled, else INVALID_STATE.
	UpdateFlight(ctx context.Context, id int64, p Patch) (*Flight, error)
	// SearchFlights returns scheduled flights ordered by departure time then id.
	SearchFlights(ctx context.Context, q BaseQuery) ([]Flight, error)
	ListFlightsByCompany(ctx context.Context, companyID int64) ([]Flight, error)
	ListFlights(ctx context.Context) ([]Flight, error)
	// CompleteDeparted marks scheduled flights that arrived before now as completed.
	CompleteDeparted(ctx context.Context, now time.Time) (int64, error)
}

type StopsFilter string

const (
	StopsAny     StopsFilter = "any"
	StopsNonstop StopsFilter = "nonstop"
	StopsOneStop StopsFilter = "1stop"
)

type SortKey string

const (
	SortNone      SortKey = ""
	SortPrice     SortKey = "price"
	SortDuration  SortKey = "duration"
	SortDeparture SortKey = "departure"
)

// SearchRequest carries base criteria and client refinements.
type SearchRequest struct {
	Origin       string      `form:"origin" json:"origin"`
	Destination  string      `form:"destination" json:"destination"`
	Date         string      `form:"date" json:"date"` // YYYY-MM-DD
	Passengers   int         `form:"passengers" json:"passengers"`
	MaxPrice     *int64      `form:"max_price" json:"max_price,omitempty"`
	Airlines     []string    `form:"airline" json:"airlines,omitempty"`
	Destinations []string    `form:"destination_in" json:"destinations,omitempty"`
	Stops        StopsFilter `form:"stops" json:"stops,omitempty"`
	SortBy       SortKey     `form:"sort" json:"sort,omitempty"`
}

type Metadata struct {
	TotalResults int   `json:"total_results"`
	BaseResults  int   `json:"base_results"`
	SearchTimeMs int64 `json:"search_time_ms"`
	CacheHit     bool  `json:"cache_hit"`
}

type SearchResult struct {
	Metadata     Metadata `json:"metadata"`
	Flights      []Flight `json:"flights"`
	Airlines     []string `json:"airlines"`
	Destinations []string `json:"destinations"`
}

type CreateInput struct {
	CompanyID     int64     `json:"company_id,string" yaml:"-"`
	FlightNumber  string    `json:"flight_number" yaml:"flight_number" binding:"required"`
	Origin        string    `json:"origin" yaml:"origin" binding:"required"`
	Destination   string    `json:"destination" yaml:"destination" binding:"required"`
	DepartureTime time.Time `json:"departure_time" yaml:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" yaml:"arrival_time" binding:"required"`
	Price         int64     `json:"price" yaml:"price"`
	TotalSeats    int       `json:"total_seats" yaml:"total_seats" binding:"required"`
	Stops         int       `json:"stops" yaml:"stops"`
}
