package auth

import (
	"net/http"

	"secondbrain/auth-api/internal"
	"secondbrain/auth-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logout deletes the session named by the cookie and clears it. A
// missing cookie or an already gone session still reports success
func Logout(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	sessionID, err := c.Cookie(middleware.SessionCookieName)
	if err == nil && sessionID != "" {
		if err := d.Sessions.Delete(sessionID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to delete session", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Logged out successfully",
		"requestID": requestID,
	})
}
