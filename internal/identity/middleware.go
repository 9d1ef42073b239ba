package identity

import (
	"airbook/internal/apperr"
	"airbook/pkg/logger"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKey = "identity"

type resolver interface {
	Resolve(ctx context.Context, userID int64) (Identity, error)
}

// Authenticate attaches the caller's Identity to the request.
// Requests without a bearer token continue as anonymous; a bad token is rejected.
func Authenticate(tokens *Tokens, users resolver, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			apperr.Respond(c, apperr.New(apperr.CodeUnauthorized, "authorization header must be a bearer token"))
			return
		}

		userID, err := tokens.Verify(strings.TrimSpace(raw))
		if err != nil {
			log.Debug("rejected bearer token", logger.Err(err))
			apperr.Respond(c, apperr.New(apperr.CodeUnauthorized, "invalid or expired token"))
			return
		}

		ident, err := users.Resolve(c.Request.Context(), userID)
		if err != nil {
			apperr.Respond(c, err)
			return
		}

		c.Set(contextKey, ident)
		c.Next()
	}
}

// FromContext returns the identity set by Authenticate, or the anonymous identity.
func FromContext(c *gin.Context) Identity {
	if v, ok := c.Get(contextKey); ok {
		if ident, ok := v.(Identity); ok {
			return ident
		}
	}
	return Identity{}
}

// RequireAuth rejects anonymous callers. Blocked callers pass; the core decides what they may do.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !FromContext(c).Authenticated() {
			apperr.Respond(c, apperr.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// RequireRole admits unblocked callers holding one of roles.
func RequireRole(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := FromContext(c)
		if !ident.Authenticated() {
			apperr.Respond(c, apperr.ErrUnauthorized)
			return
		}
		if ident.Blocked {
			apperr.Respond(c, apperr.New(apperr.CodeUnauthorized, "account is blocked"))
			return
		}
		for _, r := range roles {
			if ident.Role == r {
				c.Next()
				return
			}
		}
		apperr.Respond(c, apperr.ErrForbidden)
	}
}
