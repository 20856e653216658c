package auth

import (
	"net/http"

	"secondbrain/auth-api/internal"
	"secondbrain/auth-api/internal/service"
	"secondbrain/auth-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 600
	stateTokenSize  = 16
)

// OAuthStart kicks off the authorization code flow for a provider. The
// state nonce is pinned in a short-lived cookie and checked on callback
func OAuthStart(c *gin.Context, d *internal.Deps, provider string) {
	requestID := c.MustGet("requestID").(string)

	cfg, ok := d.OAuth[provider]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Unknown or disabled OAuth provider",
			"requestID": requestID,
		})
		return
	}

	state, err := security.GenerateToken(stateTokenSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate state token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, stateCookieTTL, "/",
		viper.GetString("cookie.domain"), viper.GetString("app.env") == "production", true)

	c.Redirect(http.StatusFound, cfg.AuthCodeURL(state))
}

// OAuthCallback finishes the code flow: verifies the state, exchanges
// the code, pulls the provider profile, reconciles it with the user
// directory and issues a session before bouncing back to the frontend
func OAuthCallback(c *gin.Context, d *internal.Deps, provider string) {
	requestID := c.MustGet("requestID").(string)

	cfg, ok := d.OAuth[provider]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Unknown or disabled OAuth provider",
			"requestID": requestID,
		})
		return
	}

	wantState, err := c.Cookie(stateCookieName)
	if err != nil || wantState == "" || c.Query("state") != wantState {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "OAuth state mismatch",
			"requestID": requestID,
		})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No authorization code provided",
			"requestID": requestID,
		})
		return
	}

	token, err := cfg.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Failed to exchange authorization code",
			"requestID": requestID,
		})

		zap.L().Error("Code exchange failed", zap.Error(err),
			zap.String("provider", provider), zap.String("requestID", requestID))
		return
	}

	profile, err := service.FetchProfile(c.Request.Context(), provider, cfg, token)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Failed to fetch provider profile",
			"requestID": requestID,
		})

		zap.L().Error("Profile fetch failed", zap.Error(err),
			zap.String("provider", provider), zap.String("requestID", requestID))
		return
	}

	user, err := d.Accounts.OAuthLogin(profile, provider, token.AccessToken, token.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("OAuth login failed", zap.Error(err),
			zap.String("provider", provider), zap.String("requestID", requestID))
		return
	}

	sessionID, err := d.Sessions.Create(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	setSessionCookie(c, sessionID)
	c.Redirect(http.StatusFound, viper.GetString("host.frontend_url")+"/auth/callback")
}
