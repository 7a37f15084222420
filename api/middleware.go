package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hznasser/falconair/internal/service/auth"
)

const (
	ctxUserID = "userID"
	ctxToken  = "bearerToken"
)

// BearerAuth validates the Authorization header and stores the caller's
// user id and raw token on the request context.
func BearerAuth(service auth.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token", "code": "UNAUTHORIZED"})
			return
		}

		userID, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "code": "UNAUTHORIZED"})
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxToken, token)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
