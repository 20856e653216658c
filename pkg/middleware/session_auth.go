package middleware

import (
	"net/http"

	"secondbrain/auth-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie carrying the opaque session id
const SessionCookieName = "sessionId"

// NewSessionAuthMiddleware guards protected routes. It resolves the
// session cookie to a user and attaches the identity to the request
// context. Nothing is cached between requests; every call goes back to
// the session and user stores so a deleted session or user cuts access
// immediately
func NewSessionAuthMiddleware(sessions *service.Sessions, accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "No session cookie",
				"requestID": requestID,
			})
			return
		}

		userID, err := sessions.Validate(sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to validate session", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		// An expired session looks exactly like one that never existed
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid or expired session",
				"requestID": requestID,
			})
			return
		}

		user, err := accounts.FetchByID(userID)
		if err != nil {
			// A session can outlive its user, treat that the same as no session
			if err == service.ErrUserNotFound {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Invalid or expired session",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resolve session user", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", user)
		c.Next()
	}
}
