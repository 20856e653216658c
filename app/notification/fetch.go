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

func Fetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

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

	c.JSON(http.StatusOK, noti)
}

// FetchBulk lists notifications for exactly one of userId or targetId
func FetchBulk(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	userID := c.Query("userId")
	targetID := c.Query("targetId")

	if (userID == "") == (targetID == "") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Provide either userId or targetId",
			"requestID": requestID,
		})
		return
	}

	q := d.DB.Order("created_at desc")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	} else {
		q = q.Where("target_id = ?", targetID)
	}

	var notis []model.Notification

	if err := q.Find(&notis).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch notifications", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, notis)
}
