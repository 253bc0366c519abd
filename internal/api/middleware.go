package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/postboard/postboard/internal/models"
)

const currentUserKey = "current_user"

// authRequired validates the bearer token and resolves it to the
// current user. The token subject is the user's email; a token whose
// subject no longer resolves to an account is rejected.
func (r *Router) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authorization header"})
			return
		}

		email, err := r.tokens.VerifyAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or has expired"})
			return
		}

		user, err := r.users.GetByEmail(c.Request.Context(), email)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser returns the authenticated user set by authRequired.
func currentUser(c *gin.Context) *models.User {
	user, _ := c.MustGet(currentUserKey).(*models.User)
	return user
}
