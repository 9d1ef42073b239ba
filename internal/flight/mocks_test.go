package flight

import (
	"airbook/internal/company"
	"airbook/internal/identity"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateFlight(ctx context.Context, f *Flight) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockStore) GetFlight(ctx context.Context, id int64) (*Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Flight), args.Error(1)
}

func (m *mockStore) UpdateFlight(ctx context.Context, id int64, p Patch) (*Flight, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Flight), args.Error(1)
}

func (m *mockStore) SearchFlights(ctx context.Context, q BaseQuery) ([]Flight, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Flight), args.Error(1)
}

func (m *mockStore) ListFlightsByCompany(ctx context.Context, companyID int64) ([]Flight, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]Flight), args.Error(1)
}

func (m *mockStore) ListFlights(ctx context.Context) ([]Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Flight), args.Error(1)
}

func (m *mockStore) CompleteDeparted(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockCache) Del(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockCache) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuthorizer struct {
	mock.Mock
}

func (m *mockAuthorizer) Authorize(ctx context.Context, actor identity.Identity, companyID int64) (*company.Company, error) {
	args := m.Called(ctx, actor, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*company.Company), args.Error(1)
}
