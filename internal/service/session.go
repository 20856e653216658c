package service

import (
	"errors"
	"time"

	"secondbrain/auth-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionTTL is how long an issued session stays valid. The session
// cookie max-age must match it.
const SessionTTL = time.Hour * 24

// Sessions owns the session token lifecycle. Sessions are created on
// login, deleted on logout and reaped lazily when an expired one is
// validated. There is no background sweep.
type Sessions struct {
	DB *gorm.DB
}

func NewSessions(db *gorm.DB) *Sessions {
	return &Sessions{DB: db}
}

// Create issues a new unguessable session id for a user and persists it
func (s *Sessions) Create(userID string) (string, error) {
	now := time.Now()

	session := model.Session{
		SessionID: uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(SessionTTL).Unix(),
		CreatedAt: now.Unix(),
	}

	if err := s.DB.Create(&session).Error; err != nil {
		return "", err
	}

	return session.SessionID, nil
}

// Validate resolves a session id to its owning user id. An expired
// session is deleted on the spot and reported exactly like a session
// that never existed: both return an empty user id and no error.
func (s *Sessions) Validate(sessionID string) (string, error) {
	var session model.Session

	err := s.DB.Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}

		return "", err
	}

	if session.ExpiresAt < time.Now().Unix() {
		if err := s.Delete(sessionID); err != nil {
			return "", err
		}

		return "", nil
	}

	return session.UserID, nil
}

// Delete removes a session. Deleting a session that doesn't exist is
// not an error
func (s *Sessions) Delete(sessionID string) error {
	return s.DB.Where("session_id = ?", sessionID).Delete(&model.Session{}).Error
}
