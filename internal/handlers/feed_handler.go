package handlers

import (
	"net/http"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FeedHandler serves the activity feed and notifications.
type FeedHandler struct {
	db *gorm.DB
}

// NewFeedHandler constructs a FeedHandler.
func NewFeedHandler(db *gorm.DB) *FeedHandler {
	return &FeedHandler{db: db}
}

// ListActivities handles GET /api/activities
func (h *FeedHandler) ListActivities(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var activities []models.Activity
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("created_at desc").Limit(100).
		Find(&activities).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities, "count": len(activities)})
}

// ListNotifications handles GET /api/notifications
func (h *FeedHandler) ListNotifications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	q := h.db.WithContext(c.Request.Context()).Where("user_id = ?", userID)
	if c.Query("unread") == "true" {
		q = q.Where("read = ?", false)
	}
	var notifications []models.Notification
	if err := q.Order("created_at desc").Limit(100).Find(&notifications).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "count": len(notifications)})
}

// MarkNotificationRead handles POST /api/notifications/:id/read
func (h *FeedHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		Update("read", true)
	if res.Error != nil {
		fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read", "id": c.Param("id")})
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
func (h *FeedHandler) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if res.Error != nil {
		fail(c, res.Error)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": res.RowsAffected})
}
