package middleware

import (
	"context"
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/project-management-api/internal/auth"
	"github.com/yukikurage/project-management-api/internal/constants"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
)

// IdentityResolver maps verified claims to a stored user.
type IdentityResolver interface {
	Resolve(ctx context.Context, claims *auth.Claims) (*models.User, error)
}

// RequestToken returns the bearer token, falling back to the token saved in
// the session cookie at login.
func RequestToken(c *gin.Context) string {
	if token := auth.ExtractBearer(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	if token, ok := sessions.Default(c).Get(constants.SessionKeyToken).(string); ok {
		return token
	}
	return ""
}

// RequireAuth verifies the request token and resolves it to a user.
func RequireAuth(verifier auth.Verifier, resolver IdentityResolver, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifier.Verify(c.Request.Context(), RequestToken(c))
		if err != nil {
			if errors.Is(err, auth.ErrNoToken) {
				apierrors.Unauthorized(c, "No token provided")
			} else {
				log.WithError(err).Debug("Rejected token")
				apierrors.Unauthorized(c, "Invalid token")
			}
			return
		}

		user, err := resolver.Resolve(c.Request.Context(), claims)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrIdentityConflict):
				apierrors.Conflict(c, "Identity is being created by another request, retry")
			case errors.Is(err, auth.ErrInvalidToken):
				apierrors.Unauthorized(c, "Invalid token")
			default:
				log.WithError(err).Error("Failed to resolve identity")
				apierrors.InternalError(c, "")
			}
			return
		}

		// Store the identity in context for easy access in handlers
		c.Set(constants.ContextKeyIdentity, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
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

// GetIdentity retrieves the resolved user from context
func GetIdentity(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
