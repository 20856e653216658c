// Package service contains the domain logic sitting between the HTTP
// handlers and the record store
package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"secondbrain/auth-api/internal/model"
	"secondbrain/auth-api/pkg/security"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// VerificationWindow is how long an emailed verification link stays valid
	VerificationWindow = time.Minute * 5

	// ResendCooldown is the minimum time since the last token issuance
	// before a new verification email may be requested
	ResendCooldown = time.Minute * 3

	idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idLength  = 16
)

// Accounts owns user records and the email verification workflow
type Accounts struct {
	DB     *gorm.DB
	Argon  *security.ArgonHash
	Mailer Mailer
}

func NewAccounts(db *gorm.DB, argon *security.ArgonHash, mailer Mailer) *Accounts {
	return &Accounts{
		DB:     db,
		Argon:  argon,
		Mailer: mailer,
	}
}

// Register creates a local, unverified user, opens a 5 minute
// verification window and dispatches the verification email. A failed
// dispatch is reported to the caller; the created user can still
// request a resend afterwards
func (a *Accounts) Register(email, password, name string) error {
	var found bool

	r := a.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ?", email).
		Find(&found)
	if r.Error != nil {
		return r.Error
	}

	if found {
		return ErrDuplicateEmail
	}

	hash, err := a.Argon.GenerateFromPassword(password)
	if err != nil {
		return err
	}

	userID, err := gonanoid.Generate(idCharset, idLength)
	if err != nil {
		return err
	}

	now := time.Now()
	issued := now
	expires := now.Add(VerificationWindow)

	user := model.User{
		ID:                         userID,
		Email:                      email,
		PasswordHash:               hash,
		Name:                       name,
		Provider:                   model.ProviderLocal,
		VerificationToken:          uuid.NewString(),
		VerificationTokenIssuedAt:  &issued,
		VerificationTokenExpiresAt: &expires,
	}

	if err := a.DB.Create(&user).Error; err != nil {
		// The existence check above is not atomic against the write, so
		// a concurrent registration can still trip the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}

		return err
	}

	if err := a.Mailer.SendVerification(email, user.VerificationToken); err != nil {
		zap.L().Error("Failed to dispatch verification email", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrMailDispatch, err)
	}

	return nil
}

// ResendVerification issues a fresh token for an unverified user,
// subject to the resend cooldown since the previous issuance
func (a *Accounts) ResendVerification(email string) error {
	var user model.User

	err := a.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}

		return err
	}

	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	if user.VerificationTokenIssuedAt != nil {
		elapsed := time.Since(*user.VerificationTokenIssuedAt)
		if elapsed < ResendCooldown {
			return &CooldownError{
				Remaining: int(math.Ceil((ResendCooldown - elapsed).Seconds())),
			}
		}
	}

	token := uuid.NewString()
	now := time.Now()
	expires := now.Add(VerificationWindow)

	if err := a.Mailer.SendVerification(email, token); err != nil {
		zap.L().Error("Failed to dispatch verification email", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrMailDispatch, err)
	}

	return a.DB.Model(&user).Updates(map[string]any{
		"verification_token":            token,
		"verification_token_issued_at":  now,
		"verification_token_expires_at": expires,
	}).Error
}

// VerifyEmail consumes a verification token. An expired token is
// rejected but left in place; only successful consumption clears the
// verification window together with flipping the verified flag
func (a *Accounts) VerifyEmail(token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	var user model.User

	err := a.DB.Where("verification_token = ?", token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}

		return err
	}

	if user.VerificationTokenExpiresAt != nil && time.Now().After(*user.VerificationTokenExpiresAt) {
		return ErrTokenExpired
	}

	return a.DB.Model(&user).Updates(map[string]any{
		"email_verified":                true,
		"verification_token":            "",
		"verification_token_issued_at":  nil,
		"verification_token_expires_at": nil,
	}).Error
}

// ValidateCredentials checks an email+password pair. A missing user, an
// OAuth-only account and a wrong password are all reported as
// ErrInvalidCredentials; a correct password on an unverified account is
// reported distinctly so the caller can offer a resend
func (a *Accounts) ValidateCredentials(email, password string) (*model.User, error) {
	var user model.User

	err := a.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	ok, err := a.Argon.VerifyPasswd(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return nil, ErrEmailVerificationRequired
	}

	user.PasswordHash = ""
	return &user, nil
}

// FetchByID returns a user by primary key, or ErrUserNotFound
func (a *Accounts) FetchByID(id string) (*model.User, error) {
	var user model.User

	err := a.DB.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &user, nil
}
