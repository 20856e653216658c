package notification

import (
	"net/http"

	"secondbrain/auth-api/internal"
	"secondbrain/auth-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Delete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	err := d.DB.Where("id = ?", c.Param("id")).Delete(&model.Notification{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete notification", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Notification deleted",
		"requestID": requestID,
	})
}
