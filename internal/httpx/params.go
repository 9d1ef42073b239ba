package httpx

import (
	"airbook/internal/apperr"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PathID parses a positive int64 path parameter.
func PathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidRequest("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

// BindJSON decodes the body into dst, reporting failures as INVALID_REQUEST.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.InvalidRequest("invalid request format: %v", err)
	}
	return nil
}
