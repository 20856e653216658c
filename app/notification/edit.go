package notification

import (
	"errors"
	"net/http"

	"secondbrain/auth-api/internal"
	"secondbrain/auth-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type editBody struct {
	Content string `json:"content"`
	Status  string `json:"status"`
}

func Edit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data editBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Status != "" && data.Status != model.NotificationUnread && data.Status != model.NotificationRead {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid status",
			"requestID": requestID,
		})
		return
	}

	var noti model.Notification

	err := d.DB.Where("id = ?", c.Param("id")).First(&noti).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Notification not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch notification", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	updates := map[string]any{}
	if data.Content != "" {
		updates["content"] = data.Content
	}
	if data.Status != "" {
		updates["status"] = data.Status
	}

	if len(updates) > 0 {
		if err := d.DB.Model(&noti).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to update notification", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	c.JSON(http.StatusOK, noti)
}
