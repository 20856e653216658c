// Package notification is a plain CRUD passthrough to the record store
package notification

import (
	"net/http"

	"secondbrain/auth-api/internal"
	"secondbrain/auth-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type createBody struct {
	UserID   string `json:"userId"`
	TargetID string `json:"targetId"`
	Content  string `json:"content"`
}

func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data createBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.UserID == "" || data.TargetID == "" || data.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "userId, targetId and content are required",
			"requestID": requestID,
		})
		return
	}

	noti := model.Notification{
		ID:       uuid.NewString(),
		UserID:   data.UserID,
		TargetID: data.TargetID,
		Content:  data.Content,
		Status:   model.NotificationUnread,
	}

	if err := d.DB.Create(&noti).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create notification", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, noti)
}
