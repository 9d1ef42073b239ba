package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, ""},
		{"direct", ErrInsufficientSeats, CodeInsufficientSeats},
		{"wrapped", fmt.Errorf("book: %w", ErrNotBookable), CodeNotBookable},
		{"store", Unavailable(errors.New("dial tcp"), "get flight"), CodeStoreUnavailable},
		{"foreign", errors.New("boom"), CodeInternalFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	err := NotFound("flight %d not found", 42)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "flight 42 not found", err.Message)
}

func TestUnavailable_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Unavailable(cause, "reserve seats")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("app error", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Respond(c, ErrInsufficientSeats)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":"not enough seats available","code":"INSUFFICIENT_SEATS"}`, w.Body.String())
	})

	t.Run("unknown error hides details", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Respond(c, errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
	})
}
