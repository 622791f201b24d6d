package notificationControllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/middleware"
	"github.com/tarlansoltanov/api.dentalshop.az/models"
	"github.com/tarlansoltanov/api.dentalshop.az/push"
)

// Pusher delivers notifications to devices. Satisfied by push.Client;
// nil disables delivery but still records the notification.
type Pusher interface {
	SendToToken(ctx context.Context, token, title, body string) error
	SendToTopic(ctx context.Context, topic, title, body string) error
}

type NotificationInput struct {
	Title  string `json:"title" binding:"required,max=255"`
	Body   string `json:"body" binding:"required,max=255"`
	UserID *uint  `json:"user_id"`
}

// GET /notifications — rows targeted at the user plus broadcasts.
func GetNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var notifications []models.Notification
		if err := db.Where("user_id = ? OR user_id IS NULL", userID).
			Order("date DESC").
			Find(&notifications).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, notifications)
	}
}

// POST /admin/notifications — store the notification and push it to the
// targeted device or the broadcast topic.
func CreateNotification(db *gorm.DB, pusher Pusher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input NotificationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		notification := models.Notification{
			Title:  input.Title,
			Body:   input.Body,
			UserID: input.UserID,
		}

		var deviceToken string
		if input.UserID != nil {
			var user models.User
			if err := db.First(&user, *input.UserID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
				return
			}
			deviceToken = user.DeviceToken
		}

		if err := db.Create(&notification).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
			return
		}

		if pusher != nil {
			var err error
			if input.UserID == nil {
				err = pusher.SendToTopic(c.Request.Context(), push.BroadcastTopic, input.Title, input.Body)
			} else if deviceToken != "" {
				err = pusher.SendToToken(c.Request.Context(), deviceToken, input.Title, input.Body)
			}
			if err != nil {
				// The row is stored either way; delivery is best-effort.
				log.Warn().Err(err).Uint("notification_id", notification.ID).Msg("failed to push notification")
			}
		}

		c.JSON(http.StatusCreated, notification)
	}
}

// DELETE /admin/notifications/:id
func DeleteNotification(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Notification{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
	}
}
