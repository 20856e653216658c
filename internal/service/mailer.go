package service

import (
	"fmt"

	"github.com/spf13/viper"
)

// Mailer dispatches the verification email. Failures propagate straight
// to the register/resend caller, there is no retry queue
type Mailer interface {
	SendVerification(sendTo, token string) error
}

// NewMailer picks the mail backend from the config, ses or smtp
func NewMailer() (Mailer, error) {
	switch viper.GetString("mail.backend") {
	case "ses":
		return NewSESMailer()
	case "smtp":
		return NewSMTPMailer(), nil
	default:
		return nil, fmt.Errorf("invalid mail backend %q", viper.GetString("mail.backend"))
	}
}

func verificationLink(token string) string {
	return fmt.Sprintf("%s/verify-email?token=%s", viper.GetString("host.frontend_url"), token)
}

func verificationBody(token string) string {
	return fmt.Sprintf(
		"Click <a href='%s'>here</a> to verify your email address.<br><br>This link will expire in 5 minutes.",
		verificationLink(token))
}
