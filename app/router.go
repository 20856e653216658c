// Package app wires the endpoints, middleware and dependencies together
package app

import (
	"fmt"
	"time"

	"secondbrain/auth-api/app/auth"
	"secondbrain/auth-api/app/notification"
	"secondbrain/auth-api/app/root"
	"secondbrain/auth-api/db"
	"secondbrain/auth-api/internal"
	"secondbrain/auth-api/internal/service"
	"secondbrain/auth-api/pkg/middleware"
	"secondbrain/auth-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"
	"github.com/go-redis/redis/v8"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
	oauthgoogle "golang.org/x/oauth2/google"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	d := &internal.Deps{}

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = database

	mailer, err := service.NewMailer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer, %w", err)
	}

	d.Argon = security.New()
	d.Mailer = mailer
	d.Accounts = service.NewAccounts(database, d.Argon, mailer)
	d.Sessions = service.NewSessions(database)
	d.OAuth = oauthConfigs()

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{viper.GetString("host.frontend_url")},
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	gate := middleware.NewSessionAuthMiddleware(d.Sessions, d.Accounts)
	rateLimit := viper.GetInt("security.rate_limit")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
		CleanupInterval:   time.Second,
	})

	m := router.Group("", rateLimiter)
	{
		// HEAD /heartbeat		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /ws			-> Default websocket passthrough route
		m.GET("/ws", root.Socket)
	}

	a := m.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /auth/register		-> Registers a new local user
		a.POST("/register", func(c *gin.Context) { auth.Register(c, d) })

		// POST /auth/resend-verification -> Resends the verification email
		a.POST("/resend-verification", func(c *gin.Context) { auth.ResendVerification(c, d) })

		// POST /auth/login		-> Logs in a user and sets the session cookie
		a.POST("/login", func(c *gin.Context) { auth.Login(c, d) })

		// GET /auth/verify-email	-> Consumes an emailed verification token
		a.GET("/verify-email", func(c *gin.Context) { auth.VerifyEmail(c, d) })

		// POST /auth/logout		-> Deletes the session and clears the cookie
		a.POST("/logout", func(c *gin.Context) { auth.Logout(c, d) })

		// GET /auth/check-session	-> Returns true when the session resolves
		a.GET("/check-session", gate, auth.CheckSession)

		// GET /auth/{google,github}[/callback] -> OAuth redirect flow
		a.GET("/google", func(c *gin.Context) { auth.OAuthStart(c, d, "google") })
		a.GET("/google/callback", func(c *gin.Context) { auth.OAuthCallback(c, d, "google") })
		a.GET("/github", func(c *gin.Context) { auth.OAuthStart(c, d, "github") })
		a.GET("/github/callback", func(c *gin.Context) { auth.OAuthCallback(c, d, "github") })
	}

	n := m.Group("/notifications", gate, middleware.BodySizeLimiter(1<<20))
	{
		// POST /notifications		-> Creates a notification
		n.POST("", func(c *gin.Context) { notification.Create(c, d) })

		// GET /notifications		-> Lists by userId or targetId
		n.GET("", cacheFor(15), func(c *gin.Context) { notification.FetchBulk(c, d) })

		// GET /notifications/:id	-> Returns a single notification
		n.GET("/:id", func(c *gin.Context) { notification.Fetch(c, d) })

		// PATCH /notifications/:id	-> Updates content or status
		n.PATCH("/:id", func(c *gin.Context) { notification.Edit(c, d) })

		// DELETE /notifications/:id	-> Deletes a notification
		n.DELETE("/:id", func(c *gin.Context) { notification.Delete(c, d) })
	}

	return router, nil
}

// oauthConfigs builds the client config per provider. Providers without
// credentials are left out of the map and their routes answer 404
func oauthConfigs() map[string]*oauth2.Config {
	configs := make(map[string]*oauth2.Config)
	backendURL := viper.GetString("host.backend_url")

	if id, secret := viper.GetString("oauth.google.client_id"),
		viper.GetString("oauth.google.client_secret"); id != "" && secret != "" {
		configs["google"] = &oauth2.Config{
			ClientID:     id,
			ClientSecret: secret,
			RedirectURL:  backendURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     oauthgoogle.Endpoint,
		}
	}

	if id, secret := viper.GetString("oauth.github.client_id"),
		viper.GetString("oauth.github.client_secret"); id != "" && secret != "" {
		configs["github"] = &oauth2.Config{
			ClientID:     id,
			ClientSecret: secret,
			RedirectURL:  backendURL + "/auth/github/callback",
			Scopes:       []string{"user:email"},
			Endpoint:     oauthgithub.Endpoint,
		}
	}

	return configs
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	if level, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

// cacheFor caches responses by request URI. With cache.redis_addr set
// the cache is shared across instances, otherwise it lives in memory
func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(cacheStore(), time.Second*time.Duration(sec))
}

var store persist.CacheStore

func cacheStore() persist.CacheStore {
	if store != nil {
		return store
	}

	if addr := viper.GetString("cache.redis_addr"); addr != "" {
		store = persist.NewRedisStore(redis.NewClient(&redis.Options{Addr: addr}))
	} else {
		store = persist.NewMemoryStore(time.Minute)
	}

	return store
}
