package internal

import (
	"secondbrain/auth-api/internal/service"
	"secondbrain/auth-api/pkg/security"

	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	Argon    *security.ArgonHash
	Mailer   service.Mailer
	Accounts *service.Accounts
	Sessions *service.Sessions

	// OAuth client configs keyed by provider name
	OAuth map[string]*oauth2.Config
}
