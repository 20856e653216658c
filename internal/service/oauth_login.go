package service

import (
	"errors"
	"time"

	"secondbrain/auth-api/internal/model"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// OAuthLogin reconciles an external provider profile with the user
// directory: first login creates a passwordless account, later logins
// only overwrite the stored OAuth tokens. The verified flag is never
// consulted on this path, provider accounts are trusted as-is
func (a *Accounts) OAuthLogin(profile *Profile, provider, accessToken, refreshToken string) (*model.User, error) {
	var user model.User

	err := a.DB.Where("provider_id = ?", profile.ID).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		userID, err := gonanoid.Generate(idCharset, idLength)
		if err != nil {
			return nil, err
		}

		user = model.User{
			ID:           userID,
			Email:        profile.Email,
			Name:         profile.Name,
			Provider:     provider,
			ProviderID:   profile.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		}

		if err := a.DB.Create(&user).Error; err != nil {
			return nil, err
		}

		return &user, nil
	}

	err = a.DB.Model(&user).Updates(map[string]any{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"updated_at":    time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &user, nil
}
