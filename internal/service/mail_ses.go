package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/spf13/viper"
)

// SESMailer sends verification mail through AWS SES
type SESMailer struct {
	client *ses.Client
	from   string
}

func NewSESMailer() (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(viper.GetString("mail.region")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config, %w", err)
	}

	return &SESMailer{
		client: ses.NewFromConfig(cfg),
		from:   viper.GetString("mail.from"),
	}, nil
}

func (s *SESMailer) SendVerification(sendTo, token string) error {
	_, err := s.client.SendEmail(context.TODO(), &ses.SendEmailInput{
		Source: aws.String(fmt.Sprintf("Second Brain <%s>", s.from)),
		Destination: &types.Destination{
			ToAddresses: []string{sendTo},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String("Second Brain - verify your email"),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(verificationBody(token)),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	})

	return err
}
