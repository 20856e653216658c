package auth

import (
	"errors"
	"net/http"

	"secondbrain/auth-api/internal"
	"secondbrain/auth-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func VerifyEmail(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No verification token provided",
			"requestID": requestID,
		})
		return
	}

	if err := d.Accounts.VerifyEmail(token); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Invalid verification token",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrTokenExpired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Verification link expired. Please request a new one",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to verify email", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Email verified successfully",
		"requestID": requestID,
	})
}
