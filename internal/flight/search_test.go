package flight

import (
	"airbook/internal/apperr"
	"airbook/pkg/cache"
	"airbook/pkg/idgen"
	"airbook/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, store Store, c cache.Cache, ttl time.Duration) *Service {
	t.Helper()
	ids, err := idgen.NewSnowflakeGenerator(3)
	require.NoError(t, err)
	return NewService(store, nil, c, ttl, ids, logger.NewWithWriter("test", io.Discard))
}

func sampleFlights() []Flight {
	return []Flight{
		{ID: 1, CompanyName: "Garuda Indonesia", Origin: "CGK", Destination: "DPS", Price: 500, DurationMinutes: 110, AvailableSeats: 9, Stops: 0, Status: StatusScheduled, DepartureTime: day.Add(6 * time.Hour)},
		{ID: 2, CompanyName: "Lion Air", Origin: "CGK", Destination: "DPS", Price: 100, DurationMinutes: 190, AvailableSeats: 4, Stops: 1, Status: StatusScheduled, DepartureTime: day.Add(8 * time.Hour)},
		{ID: 3, CompanyName: "AirAsia", Origin: "CGK", Destination: "DPS", Price: 250, DurationMinutes: 105, AvailableSeats: 1, Stops: 0, Status: StatusScheduled, DepartureTime: day.Add(9 * time.Hour)},
	}
}

func flightIDs(flights []Flight) []int64 {
	out := make([]int64, len(flights))
	for i, f := range flights {
		out[i] = f.ID
	}
	return out
}

func TestSearch_FiltersSortsAndFacets(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		wantIDs []int64
	}{
		{"max price sorted by price", SearchRequest{MaxPrice: ptr(int64(300)), SortBy: SortPrice}, []int64{2, 3}},
		{"no refinements keeps store order", SearchRequest{}, []int64{1, 2, 3}},
		{"sort by duration", SearchRequest{SortBy: SortDuration}, []int64{3, 1, 2}},
		{"nonstop only", SearchRequest{Stops: StopsNonstop}, []int64{1, 3}},
		{"one stop only", SearchRequest{Stops: StopsOneStop}, []int64{2}},
		{"airline is case insensitive", SearchRequest{Airlines: []string{"lion air", "AIRASIA"}}, []int64{2, 3}},
		{"seats cover passengers", SearchRequest{Passengers: 4}, []int64{1, 2}},
		{"destination set excludes all", SearchRequest{Destinations: []string{"SUB"}}, []int64{}},
		{"zero max price", SearchRequest{MaxPrice: ptr(int64(0))}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			store := new(mockStore)
			store.On("SearchFlights", mock.Anything, mock.Anything).Return(sampleFlights(), nil)
			svc := newTestService(t, store, nil, 0)

			// Act
			res, err := svc.Search(context.Background(), tt.req)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, flightIDs(res.Flights))
			assert.Equal(t, len(tt.wantIDs), res.Metadata.TotalResults)
			assert.Equal(t, 3, res.Metadata.BaseResults)
			assert.Equal(t, []string{"AirAsia", "Garuda Indonesia", "Lion Air"}, res.Airlines)
			assert.Equal(t, []string{"DPS"}, res.Destinations)
		})
	}
}

func TestSearch_DateBecomesUTCDayWindow(t *testing.T) {
	store := new(mockStore)
	store.On("SearchFlights", mock.Anything, mock.MatchedBy(func(q BaseQuery) bool {
		return q.Origin == "CGK" && q.Destination == "DPS" &&
			q.DepartureFrom != nil && q.DepartureFrom.Equal(day) &&
			q.DepartureTo != nil && q.DepartureTo.Equal(day.AddDate(0, 0, 1))
	})).Return([]Flight{}, nil).Once()
	svc := newTestService(t, store, nil, 0)

	res, err := svc.Search(context.Background(), SearchRequest{Origin: " CGK ", Destination: "DPS", Date: "2026-07-01"})

	require.NoError(t, err)
	assert.Empty(t, res.Flights)
	store.AssertExpectations(t)
}

func TestSearch_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		req  SearchRequest
	}{
		{"bad date", SearchRequest{Date: "01/07/2026"}},
		{"negative passengers", SearchRequest{Passengers: -1}},
		{"negative max price", SearchRequest{MaxPrice: ptr(int64(-5))}},
		{"unknown stops", SearchRequest{Stops: "2stop"}},
		{"unknown sort", SearchRequest{SortBy: "rating"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)
			svc := newTestService(t, store, nil, 0)

			_, err := svc.Search(context.Background(), tt.req)

			assert.Equal(t, apperr.CodeInvalidRequest, apperr.CodeOf(err))
			store.AssertNotCalled(t, "SearchFlights", mock.Anything, mock.Anything)
		})
	}
}

func TestSearch_StoreFailureSurfaces(t *testing.T) {
	store := new(mockStore)
	store.On("SearchFlights", mock.Anything, mock.Anything).Return(nil, apperr.Unavailable(errors.New("dial tcp"), "search flights"))
	svc := newTestService(t, store, nil, 0)

	_, err := svc.Search(context.Background(), SearchRequest{})

	assert.Equal(t, apperr.CodeStoreUnavailable, apperr.CodeOf(err))
}

func TestSearch_Cache(t *testing.T) {
	ttl := 30 * time.Second

	t.Run("miss queries store and fills cache", func(t *testing.T) {
		store := new(mockStore)
		store.On("SearchFlights", mock.Anything, mock.Anything).Return(sampleFlights(), nil).Once()
		c := new(mockCache)
		c.On("Get", mock.Anything, generationKey).Return("", cache.ErrMiss)
		c.On("Get", mock.Anything, mock.MatchedBy(func(k string) bool { return k != generationKey })).Return("", cache.ErrMiss)
		c.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string"), ttl).Return(nil).Once()
		svc := newTestService(t, store, c, ttl)

		res, err := svc.Search(context.Background(), SearchRequest{Origin: "CGK"})

		require.NoError(t, err)
		assert.False(t, res.Metadata.CacheHit)
		store.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("hit skips store", func(t *testing.T) {
		payload, err := json.Marshal(sampleFlights())
		require.NoError(t, err)
		store := new(mockStore)
		c := new(mockCache)
		c.On("Get", mock.Anything, generationKey).Return("4", nil)
		c.On("Get", mock.Anything, mock.MatchedBy(func(k string) bool { return k != generationKey })).Return(string(payload), nil)
		svc := newTestService(t, store, c, ttl)

		res, err := svc.Search(context.Background(), SearchRequest{Origin: "CGK", MaxPrice: ptr(int64(300))})

		require.NoError(t, err)
		assert.True(t, res.Metadata.CacheHit)
		assert.Equal(t, []int64{2, 3}, flightIDs(res.Flights))
		store.AssertNotCalled(t, "SearchFlights", mock.Anything, mock.Anything)
	})

	t.Run("cache outage falls back to store", func(t *testing.T) {
		store := new(mockStore)
		store.On("SearchFlights", mock.Anything, mock.Anything).Return(sampleFlights(), nil).Once()
		c := new(mockCache)
		c.On("Get", mock.Anything, generationKey).Return("", errors.New("connection refused"))
		svc := newTestService(t, store, c, ttl)

		res, err := svc.Search(context.Background(), SearchRequest{})

		require.NoError(t, err)
		assert.Len(t, res.Flights, 3)
		c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("generation changes the key", func(t *testing.T) {
		var keys []string
		for _, gen := range []string{"1", "2"} {
			c := new(mockCache)
			c.On("Get", mock.Anything, generationKey).Return(gen, nil)
			svc := newTestService(t, new(mockStore), c, ttl)

			key, ok := svc.generateCacheKey(context.Background(), criteria{base: BaseQuery{Origin: "CGK"}})
			require.True(t, ok)
			keys = append(keys, key)
		}
		assert.NotEqual(t, keys[0], keys[1])
	})
}

func TestInvalidateSearch(t *testing.T) {
	t.Run("bumps generation", func(t *testing.T) {
		c := new(mockCache)
		c.On("Incr", mock.Anything, generationKey).Return(int64(2), nil).Once()
		svc := newTestService(t, new(mockStore), c, time.Minute)

		svc.InvalidateSearch(context.Background())

		c.AssertExpectations(t)
	})

	t.Run("disabled cache is a no-op", func(t *testing.T) {
		c := new(mockCache)
		svc := newTestService(t, new(mockStore), c, 0)

		svc.InvalidateSearch(context.Background())

		c.AssertNotCalled(t, "Incr", mock.Anything, mock.Anything)
	})
}

func ptr[T any](v T) *T {
	return &v
}
