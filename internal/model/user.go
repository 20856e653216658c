// Package model contains the gorm models shared across the application
package model

import "time"

// Account providers. Provider is immutable once a user is created.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
	ProviderGithub = "github"
)

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash" json:"-"`
	Name         string `json:"name"`

	Provider   string `gorm:"default:local" json:"provider"`
	ProviderID string `gorm:"index" json:"providerId,omitempty"`

	// OAuth tokens, overwritten on every OAuth login
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`

	EmailVerified bool `gorm:"default:false" json:"isEmailVerified"`

	// Open verification window. All three are set together on issuance
	// and cleared together on consumption
	VerificationToken          string     `gorm:"index" json:"-"`
	VerificationTokenIssuedAt  *time.Time `json:"-"`
	VerificationTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
