// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validEnvs      = []string{"development", "production"}
	validDBDrivers = []string{"sqlite", "postgres"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.env", "app_env")
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.frontend_url", "host_frontend_url")
	v.BindEnv("host.backend_url", "host_backend_url")

	v.BindEnv("cookie.domain", "cookie_domain")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("security.rate_limit", "security_rate_limit")

	v.BindEnv("oauth.google.client_id", "oauth_google_client_id")
	v.BindEnv("oauth.google.client_secret", "oauth_google_client_secret")
	v.BindEnv("oauth.github.client_id", "oauth_github_client_id")
	v.BindEnv("oauth.github.client_secret", "oauth_github_client_secret")

	v.BindEnv("mail.backend", "mail_backend")
	v.BindEnv("mail.from", "mail_from")
	v.BindEnv("mail.region", "mail_region")
	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.password", "mail_password")

	v.BindEnv("cache.redis_addr", "cache_redis_addr")

	//
	// Defaults
	//
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.frontend_url", "http://localhost:5173")
	v.SetDefault("host.backend_url", "http://localhost:8080")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db")

	v.SetDefault("security.rate_limit", 10)

	v.SetDefault("mail.backend", "smtp")
	v.SetDefault("mail.port", 587)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if !slices.Contains(validEnvs, v.GetString("app.env")) {
		return errors.New("invalid app env provided, must be development or production")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid db driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("db dsn can't be empty")
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("rate limit must be bigger than 0")
	}

	switch v.GetString("mail.backend") {
	case "ses":
		{
			if v.GetString("mail.region") == "" {
				return errors.New("mail region can't be empty")
			}
			if v.GetString("mail.from") == "" {
				return errors.New("mail source address can't be empty")
			}
		}
	case "smtp":
		{
			if v.GetString("mail.host") == "" {
				return errors.New("mail host can't be empty")
			}
			if v.GetString("mail.from") == "" {
				return errors.New("mail source address can't be empty")
			}
		}
	default:
		return errors.New("invalid mail backend provided")
	}

	for _, p := range []string{"google", "github"} {
		id := v.GetString("oauth." + p + ".client_id")
		secret := v.GetString("oauth." + p + ".client_secret")

		if id == "" || secret == "" {
			zap.L().Warn("OAuth provider not fully configured, its login routes will be disabled",
				zap.String("provider", p))
		}
	}

	if v.GetString("cookie.domain") == "" {
		zap.L().Warn("No cookie.domain set, session cookies will be host-only")
	}

	return nil
}
