// Package auth contains the registration, login, verification and
// session endpoints
package auth

import (
	"net/http"

	"secondbrain/auth-api/internal/service"
	"secondbrain/auth-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// setSessionCookie places the session id in an http-only, same-site-lax
// cookie whose max-age matches the session TTL. Secure is only set in
// production so local development over plain http keeps working
func setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.SessionCookieName,
		sessionID,
		int(service.SessionTTL.Seconds()),
		"/",
		viper.GetString("cookie.domain"),
		viper.GetString("app.env") == "production",
		true,
	)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.SessionCookieName,
		"",
		-1,
		"/",
		viper.GetString("cookie.domain"),
		viper.GetString("app.env") == "production",
		true,
	)
}
