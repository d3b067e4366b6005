package middleware

import (
	"net/http"
	"strings"

	"byteandbeyond/internal/db"
	"byteandbeyond/internal/models"
	"byteandbeyond/internal/policy"
	"byteandbeyond/internal/utils"

	"github.com/gin-gonic/gin"
)

const userKey = "currentUser"

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func resolveUser(c *gin.Context) *models.User {
	token := bearerToken(c)
	if token == "" {
		return nil
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil
	}
	var user models.User
	if err := db.DB.First(&user, claims.UserID).Error; err != nil {
		return nil
	}
	// Deactivated accounts authenticate as nobody
	if !user.IsActive {
		return nil
	}
	return &user
}

// Authenticate rejects requests without a valid bearer token.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := resolveUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present but lets
// anonymous requests through.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := resolveUser(c); user != nil {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

// ViewerFrom builds the policy viewer for this request. Anonymous
// requests get a nil viewer.
func ViewerFrom(c *gin.Context) *policy.Viewer {
	user, ok := CurrentUser(c)
	if !ok {
		return nil
	}
	return &policy.Viewer{ID: user.ID, Role: user.Role}
}
