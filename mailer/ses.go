package mailer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sirupsen/logrus"

	"github.com/sohaibtahir00/job-portal-backend-sub003/config"
)

// SESService is the slice of the SES client the mailer uses, kept as an
// interface so tests can stub delivery.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESMailer struct {
	client SESService
	from   string
	logger *logrus.Logger
}

// NewSESMailer loads the default AWS credential chain. AWS_REGION defaults
// to us-east-1; MAIL_FROM must be a verified SES identity.
func NewSESMailer(ctx context.Context, logger *logrus.Logger) (*SESMailer, error) {
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		return nil, errors.New("MAIL_FROM is not set")
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SESMailer{
		client: ses.NewFromConfig(awsCfg),
		from:   from,
		logger: logger,
	}, nil
}

func (m *SESMailer) SendCheckInEmail(ctx context.Context, email CheckInEmail) error {
	subject, body, err := RenderCheckInEmail(email)
	if err != nil {
		return err
	}
	_, err = m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{email.CandidateEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.from),
	})
	if err != nil {
		config.LogError(m.logger, "mailer", "SendCheckInEmail", "ses send", email.CandidateEmail, err)
		return err
	}
	return nil
}
