package response

import (
	"log"
	"net/http"

	"github.com/badgeworks/affiliates/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// UserIDKey is where the auth middleware stores the platform user id.
const UserIDKey = "fb_user_id"

// GetUserID retrieves the authenticated platform user id from the context.
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", apperror.ErrUnauthorized
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", apperror.ErrUnauthorized
	}

	return id, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
