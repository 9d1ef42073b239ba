package flight

import (
	"airbook/internal/apperr"
	"airbook/pkg/cache"
	"airbook/pkg/logger"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	dateLayout    = "2006-01-02"
	generationKey = "flight:search:generation"
)

// criteria is a validated SearchRequest.
type criteria struct {
	base   BaseQuery
	date   string
	filter FilterOptions
	sortBy SortKey
}

func (r SearchRequest) normalize() (criteria, error) {
	c := criteria{
		base: BaseQuery{
			Origin:      strings.TrimSpace(r.Origin),
			Destination: strings.TrimSpace(r.Destination),
		},
		filter: FilterOptions{
			MaxPrice:     r.MaxPrice,
			Airlines:     r.Airlines,
			Destinations: r.Destinations,
			Stops:        r.Stops,
			Passengers:   r.Passengers,
		},
		sortBy: r.SortBy,
	}

	if c.filter.Passengers < 0 {
		return c, apperr.InvalidRequest("passengers must not be negative")
	}
	if c.filter.Passengers == 0 {
		c.filter.Passengers = 1
	}

	if d := strings.TrimSpace(r.Date); d != "" {
		day, err := time.Parse(dateLayout, d)
		if err != nil {
			return c, apperr.InvalidRequest("date must be YYYY-MM-DD, got %q", r.Date)
		}
		from, to := day.UTC(), day.UTC().AddDate(0, 0, 1)
		c.base.DepartureFrom, c.base.DepartureTo = &from, &to
		c.date = d
	}

	if r.MaxPrice != nil && *r.MaxPrice < 0 {
		return c, apperr.InvalidRequest("max_price must not be negative")
	}

	switch r.Stops {
	case "":
		c.filter.Stops = StopsAny
	case StopsAny, StopsNonstop, StopsOneStop:
	default:
		return c, apperr.InvalidRequest("stops must be one of any, nonstop, 1stop")
	}

	switch r.SortBy {
	case SortNone, SortPrice, SortDuration, SortDeparture:
	default:
		return c, apperr.InvalidRequest("sort must be one of price, duration, departure")
	}

	return c, nil
}

// Search runs the base query, then refines and orders it. Facets always describe the base set.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	startTime := time.Now()

	c, err := req.normalize()
	if err != nil {
		return nil, err
	}

	base, cacheHit, err := s.baseResults(ctx, c)
	if err != nil {
		return nil, err
	}

	flights := applyFilters(base, c.filter)
	flights = s.applySorting(flights, c.sortBy)

	return &SearchResult{
		Metadata: Metadata{
			TotalResults: len(flights),
			BaseResults:  len(base),
			SearchTimeMs: time.Since(startTime).Milliseconds(),
			CacheHit:     cacheHit,
		},
		Flights:      flights,
		Airlines:     distinct(base, func(f Flight) string { return f.CompanyName }),
		Destinations: distinct(base, func(f Flight) string { return f.Destination }),
	}, nil
}

func (s *Service) baseResults(ctx context.Context, c criteria) ([]Flight, bool, error) {
	if s.cache == nil || s.ttl <= 0 {
		flights, err := s.store.SearchFlights(ctx, c.base)
		return flights, false, err
	}

	cacheKey, ok := s.generateCacheKey(ctx, c)
	if ok {
		cached, err := s.cache.Get(ctx, cacheKey)
		switch {
		case err == nil && cached != "":
			var flights []Flight
			if err := json.Unmarshal([]byte(cached), &flights); err == nil {
				return flights, true, nil
			}
			s.logger.Error("Failed to unmarshal cached data", logger.Err(err), logger.Field{Key: "cache_key", Value: cacheKey})
		case err != nil && !errors.Is(err, cache.ErrMiss):
			s.logger.Warn("search cache read failed", logger.Err(err))
		}
	}

	flights, err := s.store.SearchFlights(ctx, c.base)
	if err != nil {
		return nil, false, err
	}

	if ok {
		s.storeInCache(ctx, cacheKey, flights)
	}
	return flights, false, nil
}

func (s *Service) storeInCache(ctx context.Context, cacheKey string, flights []Flight) {
	payload, err := json.Marshal(flights)
	if err != nil {
		s.logger.Error("Failed to marshal response", logger.Err(err))
		return
	}
	if err := s.cache.Set(ctx, cacheKey, string(payload), s.ttl); err != nil {
		s.logger.Warn("Failed to cache response", logger.Err(err), logger.Field{Key: "cache_key", Value: cacheKey})
	}
}

// generateCacheKey creates a deterministic key from the base query and the current
// inventory generation. It reports false when the generation cannot be read.
func (s *Service) generateCacheKey(ctx context.Context, c criteria) (string, bool) {
	gen, err := s.cache.Get(ctx, generationKey)
	if errors.Is(err, cache.ErrMiss) {
		gen = "0"
	} else if err != nil {
		s.logger.Warn("search cache generation unavailable", logger.Err(err))
		return "", false
	}

	key := fmt.Sprintf("flight:%s:%s:%s:%s", gen, c.base.Origin, c.base.Destination, c.date)
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("flight:search:%x", hash[:16]), true
}

// InvalidateSearch retires every cached base result set.
func (s *Service) InvalidateSearch(ctx context.Context) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if _, err := s.cache.Incr(ctx, generationKey); err != nil {
		s.logger.Error("search cache invalidation failed", logger.Err(err))
	}
}

func distinct(flights []Flight, field func(Flight) string) []string {
	seen := make(map[string]struct{}, len(flights))
	out := make([]string, 0, len(flights))
	for _, f := range flights {
		v := field(f)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
