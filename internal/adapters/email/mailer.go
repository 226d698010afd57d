package email

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"eventcalendar/internal/domain"
)

// MailerConfig selects and configures the outbound email provider.
type MailerConfig struct {
	Provider        string
	FromAddress     string
	FromName        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewMailer builds a mailer from config. Provider "ses" sends through AWS
// SES; anything else falls back to a logging no-op, which keeps local
// development working without credentials.
func NewMailer(cfg MailerConfig) domain.Mailer {
	if cfg.Provider != "ses" {
		if cfg.Provider != "noop" {
			log.Printf("[MAILER] unknown email provider %q, using noop", cfg.Provider)
		}
		return &noopMailer{}
	}
	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	}
	return &sesMailer{
		client: ses.NewFromConfig(awsCfg),
		from:   cfg.FromAddress,
		name:   cfg.FromName,
	}
}

type sesMailer struct {
	client *ses.Client
	from   string
	name   string
}

func (s *sesMailer) Send(to, subject, html, text string) error {
	source := s.from
	if s.name != "" {
		source = fmt.Sprintf("%s <%s>", s.name, s.from)
	}
	content := func(data string) *types.Content {
		return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
	}
	input := &ses.SendEmailInput{
		Source:      aws.String(source),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: content(subject),
			Body:    &types.Body{},
		},
	}
	if html != "" {
		input.Message.Body.Html = content(html)
	}
	if text != "" {
		input.Message.Body.Text = content(text)
	}
	result, err := s.client.SendEmail(context.Background(), input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	log.Printf("[MAILER] email sent via SES, message id %s", aws.ToString(result.MessageId))
	return nil
}

type noopMailer struct{}

func (n *noopMailer) Send(to, subject, html, text string) error {
	log.Printf("[MAILER] email would be sent (noop) to=%s subject=%q", to, subject)
	return nil
}
