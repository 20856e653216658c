package service

import (
	"errors"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// SMTPMailer sends verification mail through a plain SMTP relay
type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{
		host:     viper.GetString("mail.host"),
		port:     viper.GetInt("mail.port"),
		from:     viper.GetString("mail.from"),
		password: viper.GetString("mail.password"),
	}
}

func (s *SMTPMailer) SendVerification(sendTo, token string) error {
	if sendTo == s.from {
		return errors.New("invalid recipient address")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", sendTo)
	m.SetHeader("Subject", "Second Brain - verify your email")
	m.SetBody("text/html", verificationBody(token))

	d := gomail.NewDialer(s.host, s.port, s.from, s.password)

	return d.DialAndSend(m)
}
