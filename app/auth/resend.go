package auth

import (
	"errors"
	"net/http"

	"secondbrain/auth-api/internal"
	"secondbrain/auth-api/internal/service"
	"secondbrain/auth-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type resendBody struct {
	Email string `json:"email"`
}

func ResendVerification(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data resendBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := d.Accounts.ResendVerification(data.Email); err != nil {
		var cooldown *service.CooldownError

		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "No account is registered with this email",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrAlreadyVerified):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "This email is already verified",
				"requestID": requestID,
			})
		case errors.As(err, &cooldown):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":            "Please wait before requesting a new verification email",
				"remainingSeconds": cooldown.Remaining,
				"requestID":        requestID,
			})
		case errors.Is(err, service.ErrMailDispatch):
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Failed to send the verification email. Please try again",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resend verification email", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Verification email sent. Please check your inbox",
		"requestID": requestID,
	})
}
