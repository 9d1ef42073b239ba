package company

import (
	"airbook/internal/apperr"
	"airbook/internal/identity"
	"airbook/pkg/logger"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedResolver map[int64]identity.Identity

func (r fixedResolver) Resolve(_ context.Context, userID int64) (identity.Identity, error) {
	if ident, ok := r[userID]; ok {
		return ident, nil
	}
	return identity.Identity{}, apperr.ErrNotFound
}

type handlerHarness struct {
	router *gin.Engine
	tokens *identity.Tokens
}

func newHandlerHarness(t *testing.T, store Store) *handlerHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := identity.NewTokens("test-secret", time.Hour)
	users := fixedResolver{
		1: admin,
		7: {UserID: 7, Role: identity.RoleCompany},
	}

	router := gin.New()
	router.Use(identity.Authenticate(tokens, users, logger.NewWithWriter("test", io.Discard)))
	NewCompanyHandler(newTestService(t, store)).RegisterRoutes(router)
	return &handlerHarness{router: router, tokens: tokens}
}

func (h *handlerHarness) do(t *testing.T, method, target string, userID int64, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, err := h.tokens.Issue(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestGetCompanyHandler(t *testing.T) {
	store := new(mockStore)
	store.On("GetCompany", mock.Anything, int64(42)).
		Return(&Company{ID: 42, Name: "Garuda Indonesia", Code: "GA", Active: true}, nil)
	store.On("GetCompany", mock.Anything, int64(43)).Return(nil, apperr.NotFound("company 43 not found"))
	h := newHandlerHarness(t, store)

	tests := []struct {
		name   string
		target string
		userID int64
		status int
	}{
		{"admin reads company", "/v1/companies/42", 1, http.StatusOK},
		{"unknown company", "/v1/companies/43", 1, http.StatusNotFound},
		{"bad id", "/v1/companies/GA", 1, http.StatusBadRequest},
		{"manager is not admin", "/v1/companies/42", 7, http.StatusForbidden},
		{"anonymous", "/v1/companies/42", 0, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(t, http.MethodGet, tt.target, tt.userID, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	t.Run("body carries string ids", func(t *testing.T) {
		w := h.do(t, http.MethodGet, "/v1/companies/42", 1, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "42", body["id"])
		assert.Equal(t, "GA", body["code"])
	})
}

func TestSetActiveHandler_RequiresFlag(t *testing.T) {
	h := newHandlerHarness(t, new(mockStore))

	w := h.do(t, http.MethodPost, "/v1/companies/42/active", 1, `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(apperr.CodeInvalidRequest))
}
