package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/mtakagi/body-tracker-api/internal/authz"
	"github.com/mtakagi/body-tracker-api/internal/constants"
	apierrors "github.com/mtakagi/body-tracker-api/internal/errors"
)

// RequireAuth checks the session and places the acting identity into the
// request context. Handlers and services receive the identity explicitly;
// nothing downstream reads the session again.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		userID, ok := toUint64(session.Get(constants.SessionKeyUserID))
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		username, _ := session.Get(constants.SessionKeyUsername).(string)
		isAdmin, _ := session.Get(constants.SessionKeyIsAdmin).(bool)

		c.Set(constants.ContextKeyIdentity, authz.Identity{
			UserID:   userID,
			Username: username,
			IsAdmin:  isAdmin,
		})
		c.Next()
	}
}

// RequireAdmin gates a route on the administrator role. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !authz.CanAdminister(identity) {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetIdentity retrieves the acting identity from the request context.
func GetIdentity(c *gin.Context) (authz.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return authz.Identity{}, false
	}

	identity, ok := value.(authz.Identity)
	return identity, ok
}

func toUint64(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
