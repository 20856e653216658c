package service

import (
	"testing"
	"time"

	"secondbrain/auth-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesUnverifiedUserWithWindow(t *testing.T) {
	a, mailer := newTestAccounts(t)

	require.NoError(t, a.Register("user@example.com", "password123", "Test User"))

	var user model.User
	require.NoError(t, a.DB.Where("email = ?", "user@example.com").First(&user).Error)

	assert.False(t, user.EmailVerified)
	assert.Equal(t, model.ProviderLocal, user.Provider)
	assert.NotEmpty(t, user.VerificationToken)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)

	require.NotNil(t, user.VerificationTokenIssuedAt)
	require.NotNil(t, user.VerificationTokenExpiresAt)
	assert.WithinDuration(t,
		user.VerificationTokenIssuedAt.Add(VerificationWindow),
		*user.VerificationTokenExpiresAt,
		time.Second)

	require.Len(t, mailer.Sent, 1)
	assert.Equal(t, "user@example.com", mailer.Sent[0].To)
	assert.Equal(t, user.VerificationToken, mailer.Sent[0].Token)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	a, _ := newTestAccounts(t)

	require.NoError(t, a.Register("user@example.com", "password123", "First"))

	var before model.User
	require.NoError(t, a.DB.Where("email = ?", "user@example.com").First(&before).Error)

	err := a.Register("user@example.com", "otherpassword", "Second")
	require.ErrorIs(t, err, ErrDuplicateEmail)

	// First user's record is untouched
	var after model.User
	require.NoError(t, a.DB.Where("email = ?", "user@example.com").First(&after).Error)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Name, after.Name)

	var count int64
	require.NoError(t, a.DB.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegister_MailDispatchFailure(t *testing.T) {
	a, mailer := newTestAccounts(t)
	mailer.Fail = true

	err := a.Register("user@example.com", "password123", "Test User")
	require.ErrorIs(t, err, ErrMailDispatch)
}

func TestVerifyEmail_ConsumesToken(t *testing.T) {
	a, mailer := newTestAccounts(t)

	require.NoError(t, a.Register("user@example.com", "password123", "Test User"))
	token := mailer.Sent[0].Token

	require.NoError(t, a.VerifyEmail(token))

	var user model.User
	require.NoError(t, a.DB.Where("email = ?", "user@example.com").First(&user).Error)
	assert.True(t, user.EmailVerified)
	assert.Empty(t, user.VerificationToken)
	assert.Nil(t, user.VerificationTokenIssuedAt)
	assert.Nil(t, user.VerificationTokenExpiresAt)

	// The token is single use
	require.ErrorIs(t, a.VerifyEmail(token), ErrInvalidToken)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	a, _ := newTestAccounts(t)

	require.ErrorIs(t, a.VerifyEmail("not-a-token"), ErrInvalidToken)
	require.ErrorIs(t, a.VerifyEmail(""), ErrInvalidToken)
}

func TestVerifyEmail_Expired(t *testing.T) {
	a, mailer := newTestAccounts(t)

	require.NoError(t, a.Register("user@example.com", "password123", "Test User"))
	token := mailer.Sent[0].Token

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, a.DB.Model(&model.User{}).
		Where("email = ?", "user@example.com").
		Update("verification_token_expires_at", expired).Error)

	require.ErrorIs(t, a.VerifyEmail(token), ErrTokenExpired)

	// Expiry rejection leaves the record untouched
	var user model.User
	require.NoError(t, a.DB.Where("email = ?", "user@example.com").First(&user).Error)
	assert.False(t, user.EmailVerified)
	assert.Equal(t, token, user.VerificationToken)
}

func TestResendVerification_Cooldown(t *testing.T) {
	a, mailer := newTestAccounts(t)

	require.NoError(t, a.Register("user@example.com", "password123", "Test User"))

	err := a.ResendVerification("user@example.com")

	var cooldown *CooldownError
	require.ErrorAs(t, err, &cooldown)
	assert.Greater(t, cooldown.Remaining, 0)
	assert.LessOrEqual(t, cooldown.Remaining, int(ResendCooldown.Seconds()))

	// Still only the original mail
	assert.Len(t, mailer.Sent, 1)
}

func TestResendVerification_AfterCooldown(t *testing.T) {
	a, mailer := newTestAccounts(t)

	require.NoError(t, a.Register("user@example.com", "password123", "Test User"))
	oldToken := mailer.Sent[0].Token

	issued := time.Now().Add(-4 * time.Minute)
	require.NoError(t, a.DB.Model(&model.User{}).
		Where("email = ?", "user@example.com").
		Update("verification_token_issued_at", issued).Error)

	require.NoError(t, a.ResendVerification("user@example.com"))
	require.Len(t, mailer.Sent, 2)

	var user model.User
	require.NoError(t, a.DB.Where("email = ?", "user@example.com").First(&user).Error)
	assert.NotEqual(t, oldToken, user.VerificationToken)
	assert.Equal(t, user.VerificationToken, mailer.Sent[1].Token)
	assert.WithinDuration(t, time.Now().Add(VerificationWindow), *user.VerificationTokenExpiresAt, time.Second)
}

func TestResendVerification_UnknownEmail(t *testing.T) {
	a, _ := newTestAccounts(t)

	require.ErrorIs(t, a.ResendVerification("missing@example.com"), ErrUserNotFound)
}

func TestResendVerification_AlreadyVerified(t *testing.T) {
	a, mailer := newTestAccounts(t)

	require.NoError(t, a.Register("user@example.com", "password123", "Test User"))
	require.NoError(t, a.VerifyEmail(mailer.Sent[0].Token))

	require.ErrorIs(t, a.ResendVerification("user@example.com"), ErrAlreadyVerified)
}

func TestValidateCredentials(t *testing.T) {
	a, mailer := newTestAccounts(t)

	require.NoError(t, a.Register("user@example.com", "password123", "Test User"))

	t.Run("unknown email", func(t *testing.T) {
		_, err := a.ValidateCredentials("missing@example.com", "password123")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.ValidateCredentials("user@example.com", "wrongpassword")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unverified account", func(t *testing.T) {
		_, err := a.ValidateCredentials("user@example.com", "password123")
		require.ErrorIs(t, err, ErrEmailVerificationRequired)
	})

	t.Run("verified account", func(t *testing.T) {
		require.NoError(t, a.VerifyEmail(mailer.Sent[0].Token))

		user, err := a.ValidateCredentials("user@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", user.Email)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("oauth-only account", func(t *testing.T) {
		_, err := a.OAuthLogin(&Profile{ID: "g-1", Email: "oauth@example.com", Name: "OAuth User"},
			model.ProviderGoogle, "at", "rt")
		require.NoError(t, err)

		_, err = a.ValidateCredentials("oauth@example.com", "password123")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestFetchByID(t *testing.T) {
	a, _ := newTestAccounts(t)

	require.NoError(t, a.Register("user@example.com", "password123", "Test User"))

	var user model.User
	require.NoError(t, a.DB.Where("email = ?", "user@example.com").First(&user).Error)

	got, err := a.FetchByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = a.FetchByID("missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}
