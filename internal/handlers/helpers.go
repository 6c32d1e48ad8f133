package handlers

import (
	"net/http"
	"strings"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/database"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user id set by the JWT middleware;
// aborts with 401 when missing.
func currentUser(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return "", false
	}
	return userID, true
}

// fail maps a store/database error onto the right status code and a
// user-facing message.
func fail(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case database.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": database.UserMessage(err)})
	case strings.HasPrefix(err.Error(), "validation failed"):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": database.UserMessage(err)})
	}
}
