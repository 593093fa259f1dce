// Package ses delivers alert emails through Amazon SES (v2 API).
package ses

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"moneyminder/internal/log"
	"moneyminder/internal/notify"
)

const charset = "UTF-8"

// API is the subset of the SES client the sender uses.
type API interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender implements notify.Sender.
type Sender struct {
	api    API
	from   string
	logger *log.Logger
}

var _ notify.Sender = (*Sender)(nil)

func New(api API, from string, logger *log.Logger) (*Sender, error) {
	if from == "" {
		return nil, errors.New("ses: sender address is required")
	}
	return &Sender{api: api, from: from, logger: logger.WithComponent(log.ComponentNotify)}, nil
}

// NewClient builds an SES client from the default credential chain.
func NewClient(ctx context.Context, region string) (*sesv2.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sesv2.NewFromConfig(cfg), nil
}

func (s *Sender) Send(ctx context.Context, e notify.Email) error {
	if err := e.Validate(); err != nil {
		return err
	}

	body := &types.Body{}
	if e.Text != "" {
		body.Text = &types.Content{Data: aws.String(e.Text), Charset: aws.String(charset)}
	}
	if e.HTML != "" {
		body.Html = &types.Content{Data: aws.String(e.HTML), Charset: aws.String(charset)}
	}

	out, err := s.api.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{e.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(e.Subject), Charset: aws.String(charset)},
				Body:    body,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}

	s.logger.DebugContext(ctx, "Email accepted by SES",
		log.FieldRecipient, e.To,
		"message_id", aws.ToString(out.MessageId))
	return nil
}
