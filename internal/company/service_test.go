package company

import (
	"airbook/internal/apperr"
	"airbook/internal/identity"
	"airbook/pkg/idgen"
	"airbook/pkg/logger"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateCompany(ctx context.Context, c *Company) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockStore) GetCompany(ctx context.Context, id int64) (*Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Company), args.Error(1)
}

func (m *mockStore) ListCompanies(ctx context.Context) ([]Company, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Company), args.Error(1)
}

func (m *mockStore) SetCompanyActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockStore) AssignManager(ctx context.Context, companyID, userID int64) error {
	return m.Called(ctx, companyID, userID).Error(0)
}

var admin = identity.Identity{UserID: 1, Role: identity.RoleAdmin}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	ids, err := idgen.NewSnowflakeGenerator(5)
	require.NoError(t, err)
	return NewService(store, ids, logger.NewWithWriter("test", io.Discard))
}

func TestCreate(t *testing.T) {
	t.Run("normalizes code and assigns manager", func(t *testing.T) {
		store := new(mockStore)
		store.On("CreateCompany", mock.Anything, mock.MatchedBy(func(c *Company) bool {
			return c.Code == "GA" && c.Name == "Garuda Indonesia" && c.Active && c.ManagerID == 20
		})).Return(nil).Once()

		c, err := newTestService(t, store).Create(context.Background(), admin, CreateInput{Name: " Garuda Indonesia ", Code: "ga", ManagerID: 20})

		require.NoError(t, err)
		assert.Equal(t, int64(20), c.ManagerID)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "AssignManager", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown manager fails in one store call", func(t *testing.T) {
		store := new(mockStore)
		store.On("CreateCompany", mock.Anything, mock.Anything).Return(apperr.NotFound("user 999 not found")).Once()

		c, err := newTestService(t, store).Create(context.Background(), admin, CreateInput{Name: "Garuda", Code: "GA", ManagerID: 999})

		assert.Nil(t, c)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "AssignManager", mock.Anything, mock.Anything, mock.Anything)
	})

	tests := []struct {
		name    string
		actor   identity.Identity
		in      CreateInput
		wantErr error
	}{
		{"not admin", identity.Identity{UserID: 2, Role: identity.RoleCompany}, CreateInput{Name: "X", Code: "XX"}, apperr.ErrForbidden},
		{"empty name", admin, CreateInput{Name: " ", Code: "XX"}, apperr.New(apperr.CodeInvalidRequest, "")},
		{"code too long", admin, CreateInput{Name: "X", Code: "ABCD"}, apperr.New(apperr.CodeInvalidRequest, "")},
		{"code with symbol", admin, CreateInput{Name: "X", Code: "A-"}, apperr.New(apperr.CodeInvalidRequest, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)

			_, err := newTestService(t, store).Create(context.Background(), tt.actor, tt.in)

			assert.ErrorIs(t, err, tt.wantErr)
			store.AssertNotCalled(t, "CreateCompany", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthorize(t *testing.T) {
	garuda := &Company{ID: 5, Name: "Garuda", ManagerID: 10}

	tests := []struct {
		name    string
		actor   identity.Identity
		wantErr error
	}{
		{"admin", admin, nil},
		{"managing company user", identity.Identity{UserID: 10, Role: identity.RoleCompany}, nil},
		{"other company user", identity.Identity{UserID: 11, Role: identity.RoleCompany}, apperr.ErrForbidden},
		{"manager id with demoted role", identity.Identity{UserID: 10, Role: identity.RoleUser}, apperr.ErrForbidden},
		{"blocked manager", identity.Identity{UserID: 10, Role: identity.RoleCompany, Blocked: true}, apperr.ErrUnauthorized},
		{"anonymous", identity.Identity{}, apperr.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)
			store.On("GetCompany", mock.Anything, int64(5)).Return(garuda, nil)

			got, err := newTestService(t, store).Authorize(context.Background(), tt.actor, 5)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, garuda, got)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unknown company", func(t *testing.T) {
		store := new(mockStore)
		store.On("GetCompany", mock.Anything, int64(6)).Return(nil, apperr.NotFound("company 6 not found"))

		_, err := newTestService(t, store).Authorize(context.Background(), admin, 6)

		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestAssignManager(t *testing.T) {
	store := new(mockStore)
	store.On("AssignManager", mock.Anything, int64(5), int64(30)).Return(nil).Once()
	store.On("GetCompany", mock.Anything, int64(5)).Return(&Company{ID: 5, ManagerID: 30}, nil)
	svc := newTestService(t, store)

	c, err := svc.AssignManager(context.Background(), admin, 5, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(30), c.ManagerID)

	_, err = svc.AssignManager(context.Background(), identity.Identity{UserID: 30, Role: identity.RoleCompany}, 5, 31)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestSetActive(t *testing.T) {
	store := new(mockStore)
	store.On("SetCompanyActive", mock.Anything, int64(5), false).Return(nil).Once()
	store.On("GetCompany", mock.Anything, int64(5)).Return(&Company{ID: 5, Active: false}, nil)

	c, err := newTestService(t, store).SetActive(context.Background(), admin, 5, false)

	require.NoError(t, err)
	assert.False(t, c.Active)
	store.AssertExpectations(t)
}
