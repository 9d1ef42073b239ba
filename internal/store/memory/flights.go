package memory

import (
	"airbook/internal/apperr"
	"airbook/internal/flight"
	"context"
	"sort"
	"time"
)

func (s *Store) CreateFlight(ctx context.Context, f *flight.Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[f.CompanyID]; !ok {
		return apperr.NotFound("company %d not found", f.CompanyID)
	}
	s.flights[f.ID] = *f
	return nil
}

func (s *Store) GetFlight(ctx context.Context, id int64) (*flight.Flight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.flights[id]
	if !ok {
		return nil, apperr.NotFound("flight %d not found", id)
	}
	return &f, nil
}

func (s *Store) UpdateFlight(ctx context.Context, id int64, p flight.Patch) (*flight.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[id]
	if !ok {
		return nil, apperr.NotFound("flight %d not found", id)
	}
	if f.Status != flight.StatusScheduled {
		return nil, apperr.Newf(apperr.CodeInvalidState, "flight is %s", f.Status)
	}

	if p.Price != nil {
		f.Price = *p.Price
	}
	if p.DepartureTime != nil {
		f.DepartureTime = p.DepartureTime.UTC()
	}
	if p.ArrivalTime != nil {
		f.ArrivalTime = p.ArrivalTime.UTC()
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	f.DurationMinutes = int(f.ArrivalTime.Sub(f.DepartureTime) / time.Minute)

	s.flights[id] = f
	return &f, nil
}

func (s *Store) SearchFlights(ctx context.Context, q flight.BaseQuery) ([]flight.Flight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]flight.Flight, 0)
	for _, f := range s.flights {
		if f.Status != flight.StatusScheduled {
			continue
		}
		if q.Origin != "" && f.Origin != q.Origin {
			continue
		}
		if q.Destination != "" && f.Destination != q.Destination {
			continue
		}
		if q.DepartureFrom != nil && f.DepartureTime.Before(*q.DepartureFrom) {
			continue
		}
		if q.DepartureTo != nil && !f.DepartureTime.Before(*q.DepartureTo) {
			continue
		}
		out = append(out, f)
	}
	sortFlights(out)
	return out, nil
}

func (s *Store) ListFlightsByCompany(ctx context.Context, companyID int64) ([]flight.Flight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]flight.Flight, 0)
	for _, f := range s.flights {
		if f.CompanyID == companyID {
			out = append(out, f)
		}
	}
	sortFlights(out)
	return out, nil
}

func (s *Store) ListFlights(ctx context.Context) ([]flight.Flight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]flight.Flight, 0, len(s.flights))
	for _, f := range s.flights {
		out = append(out, f)
	}
	sortFlights(out)
	return out, nil
}

func (s *Store) CompleteDeparted(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, f := range s.flights {
		if f.Status == flight.StatusScheduled && f.ArrivalTime.Before(now) {
			f.Status = flight.StatusCompleted
			s.flights[id] = f
			n++
		}
	}
	return n, nil
}

// sortFlights gives map iteration the same order the SQL store uses.
func sortFlights(flights []flight.Flight) {
	sort.Slice(flights, func(i, j int) bool {
		if !flights[i].DepartureTime.Equal(flights[j].DepartureTime) {
			return flights[i].DepartureTime.Before(flights[j].DepartureTime)
		}
		return flights[i].ID < flights[j].ID
	})
}
