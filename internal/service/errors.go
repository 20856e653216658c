package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the account and session services. Handlers
// map these to HTTP statuses, everything else is an internal error.
var (
	ErrDuplicateEmail            = errors.New("email is already registered")
	ErrUserNotFound              = errors.New("user not found")
	ErrAlreadyVerified           = errors.New("email is already verified")
	ErrInvalidToken              = errors.New("invalid verification token")
	ErrTokenExpired              = errors.New("verification token expired")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrEmailVerificationRequired = errors.New("email verification required")
	ErrMailDispatch              = errors.New("failed to send verification email")
)

// CooldownError is returned when a verification resend is requested
// before the cooldown since the last issuance has passed. Remaining
// is the number of seconds left, rounded up, always positive.
type CooldownError struct {
	Remaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new email", e.Remaining)
}
