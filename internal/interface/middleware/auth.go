package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/eventplanner/internal/auth"
	"github.com/oksasatya/eventplanner/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// Auth requires a valid "Authorization: Bearer <token>" header.
// It sets userID and userEmail in the Gin context on success.
func Auth(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.TokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.Verify(token)
		if err != nil {
			msg := "invalid access token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "access token expired"
			}
			response.Error[any](c, http.StatusUnauthorized, msg, nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated user, or "" on ungated routes.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
