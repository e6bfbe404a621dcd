package notifxses

import (
	"context"
	"errors"
	"time"

	"github.com/Abraxas-365/activemail/pkg/notifx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/smithy-go"
	"github.com/sethvargo/go-retry"
)

// API is the subset of the SES client used by the provider.
type API interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESProvider implements notifx.EmailSender using AWS SES. Throttled calls
// are retried with exponential backoff.
type SESProvider struct {
	client      API
	fromAddress string
	maxRetries  uint64
	baseDelay   time.Duration
}

// Option configures an SESProvider.
type Option func(*SESProvider)

// WithRetry sets how often a throttled send is retried and the first backoff delay.
func WithRetry(maxRetries uint64, baseDelay time.Duration) Option {
	return func(p *SESProvider) {
		p.maxRetries = maxRetries
		p.baseDelay = baseDelay
	}
}

// NewSESProvider creates a new SES email provider. fromAddress is used when
// a message has no sender.
func NewSESProvider(client API, fromAddress string, opts ...Option) *SESProvider {
	p := &SESProvider{
		client:      client,
		fromAddress: fromAddress,
		maxRetries:  3,
		baseDelay:   200 * time.Millisecond,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// SendEmail sends a single email via SES.
func (p *SESProvider) SendEmail(ctx context.Context, msg notifx.EmailMessage, opts ...notifx.Option) error {
	input, err := p.buildInput(msg, notifx.ApplySendOptions(opts))
	if err != nil {
		return err
	}

	b := retry.WithMaxRetries(p.maxRetries, retry.NewExponential(p.baseDelay))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		_, err := p.client.SendEmail(ctx, input)
		if isThrottled(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return sesErrors.NewWithCause(ErrSendFailed, err).
			WithDetail("to", msg.To).
			WithDetail("subject", msg.Subject)
	}

	return nil
}

func (p *SESProvider) buildInput(msg notifx.EmailMessage, so notifx.SendOptions) (*ses.SendEmailInput, error) {
	from := msg.From
	if from == "" {
		from = p.fromAddress
	}
	if from == "" {
		return nil, sesErrors.New(ErrNoSender).WithDetail("subject", msg.Subject)
	}

	body := &types.Body{}
	if msg.TextBody != "" {
		body.Text = &types.Content{
			Data:    aws.String(msg.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if msg.HTMLBody != "" {
		body.Html = &types.Content{
			Data:    aws.String(msg.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses:  msg.To,
			CcAddresses:  msg.CC,
			BccAddresses: msg.BCC,
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: body,
		},
	}

	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}
	if so.ConfigID != "" {
		input.ConfigurationSetName = aws.String(so.ConfigID)
	}
	for name, value := range so.Tags {
		input.Tags = append(input.Tags, types.MessageTag{
			Name:  aws.String(name),
			Value: aws.String(value),
		})
	}

	return input, nil
}

func isThrottled(err error) bool {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return false
	}
	switch ae.ErrorCode() {
	case "Throttling", "ThrottlingException", "TooManyRequestsException":
		return true
	}
	return false
}
