package model

// Session maps an opaque session id to its owning user. Immutable once
// created except for deletion. Timestamps are epoch seconds.
type Session struct {
	SessionID string `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	ExpiresAt int64
	CreatedAt int64
}
