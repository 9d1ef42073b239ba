package stats_test

import (
	"airbook/internal/apperr"
	"airbook/internal/identity"
	"airbook/internal/stats"
	"airbook/pkg/logger"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type knownCallers map[int64]identity.Identity

func (k knownCallers) Resolve(_ context.Context, userID int64) (identity.Identity, error) {
	if ident, ok := k[userID]; ok {
		return ident, nil
	}
	return identity.Identity{}, apperr.New(apperr.CodeUnauthorized, "unknown user")
}

func TestStatsHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, ga, jt := seed(t)
	tokens := identity.NewTokens("stats-secret", time.Hour)
	callers := knownCallers{
		1:  {UserID: 1, Role: identity.RoleAdmin},
		10: {UserID: 10, Role: identity.RoleCompany},
		12: {UserID: 12, Role: identity.RoleUser},
	}

	router := gin.New()
	router.Use(identity.Authenticate(tokens, callers, logger.NewWithWriter("test", io.Discard)))
	stats.NewStatsHandler(svc).RegisterRoutes(router)

	get := func(t *testing.T, target string, userID int64) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if userID != 0 {
			token, err := tokens.Issue(userID)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	gaPath := "/v1/companies/" + strconv.FormatInt(ga.ID, 10) + "/stats"
	jtPath := "/v1/companies/" + strconv.FormatInt(jt.ID, 10) + "/stats"

	tests := []struct {
		name     string
		target   string
		userID   int64
		status   int
		wantCode string
	}{
		{"unknown window on platform", "/v1/admin/stats?window=bogus", 1, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown window on company", gaPath + "?window=bogus", 10, http.StatusBadRequest, "INVALID_REQUEST"},
		{"anonymous", "/v1/admin/stats", 0, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"manager on platform", "/v1/admin/stats", 10, http.StatusForbidden, "FORBIDDEN"},
		{"traveller on company", gaPath, 12, http.StatusForbidden, "FORBIDDEN"},
		{"manager on other company", jtPath, 10, http.StatusForbidden, "FORBIDDEN"},
		{"unknown company", "/v1/companies/77/stats", 1, http.StatusNotFound, "NOT_FOUND"},
		{"bad company id", "/v1/companies/GA/stats", 1, http.StatusBadRequest, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, tt.target, tt.userID)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}

	t.Run("platform totals default to all", func(t *testing.T) {
		w := get(t, "/v1/admin/stats", 1)
		require.Equal(t, http.StatusOK, w.Code)

		var got stats.Stats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, stats.WindowAll, got.Window)
		assert.Equal(t, int64(800), got.TotalRevenue)
		require.NotNil(t, got.Platform)
		assert.Equal(t, 2, got.Platform.TotalCompanies)
	})

	t.Run("manager sees own company for today", func(t *testing.T) {
		w := get(t, gaPath+"?window=today", 10)
		require.Equal(t, http.StatusOK, w.Code)

		var got stats.Stats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, stats.WindowToday, got.Window)
		assert.Equal(t, 2, got.TotalBookings)
		assert.Nil(t, got.Platform)
	})
}
