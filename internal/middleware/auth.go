package middleware

import (
	"github.com/ayatori/workspace-chat-api/internal/constants"
	apierrors "github.com/ayatori/workspace-chat-api/internal/errors"
	"github.com/ayatori/workspace-chat-api/internal/services"
	"github.com/ayatori/workspace-chat-api/pkg/auth"
	"github.com/gin-gonic/gin"
)

// RequireAuth checks the bearer token against the active session registry
// and stores the resolved user id in the request context.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, err := authService.ResolveToken(token)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyToken, token)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	if !ok {
		return 0, false
	}
	return id, true
}

// GetToken retrieves the bearer token that authenticated this request
func GetToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(constants.ContextKeyToken)
	if !exists {
		return "", false
	}

	value, ok := token.(string)
	if !ok {
		return "", false
	}
	return value, true
}
