package notifxses_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/activemail/pkg/errx"
	"github.com/Abraxas-365/activemail/pkg/notifx"
	"github.com/Abraxas-365/activemail/pkg/notifx/notifxses"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	errs   []error
	inputs []*ses.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func message() notifx.EmailMessage {
	return notifx.EmailMessage{
		To:       []string{"ann@example.com"},
		ReplyTo:  "support@example.com",
		Subject:  "Hello",
		HTMLBody: "<p>Hello</p>",
		TextBody: "Hello",
	}
}

func TestSESProvider_BuildsInput(t *testing.T) {
	api := &fakeSES{}
	p := notifxses.NewSESProvider(api, "noreply@example.com")

	err := p.SendEmail(context.Background(), message(),
		notifx.WithConfigID("transactional"),
		notifx.WithTags(map[string]string{"template": "welcome"}),
	)

	require.NoError(t, err)
	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	assert.Equal(t, "noreply@example.com", aws.ToString(in.Source))
	assert.Equal(t, []string{"ann@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, []string{"support@example.com"}, in.ReplyToAddresses)
	assert.Equal(t, "Hello", aws.ToString(in.Message.Subject.Data))
	assert.Equal(t, "<p>Hello</p>", aws.ToString(in.Message.Body.Html.Data))
	assert.Equal(t, "Hello", aws.ToString(in.Message.Body.Text.Data))
	assert.Equal(t, "transactional", aws.ToString(in.ConfigurationSetName))
	require.Len(t, in.Tags, 1)
	assert.Equal(t, "template", aws.ToString(in.Tags[0].Name))
}

func TestSESProvider_RetriesThrottling(t *testing.T) {
	throttled := &smithy.GenericAPIError{Code: "Throttling", Message: "Rate exceeded"}
	api := &fakeSES{errs: []error{throttled, throttled}}
	p := notifxses.NewSESProvider(api, "noreply@example.com", notifxses.WithRetry(3, time.Millisecond))

	require.NoError(t, p.SendEmail(context.Background(), message()))
	assert.Len(t, api.inputs, 3)
}

func TestSESProvider_DoesNotRetryOtherErrors(t *testing.T) {
	api := &fakeSES{errs: []error{&smithy.GenericAPIError{Code: "MessageRejected", Message: "Email address is not verified"}}}
	p := notifxses.NewSESProvider(api, "noreply@example.com", notifxses.WithRetry(3, time.Millisecond))

	err := p.SendEmail(context.Background(), message())

	assert.True(t, errx.HasCode(err, notifxses.ErrSendFailed))
	assert.Len(t, api.inputs, 1)
}

func TestSESProvider_GivesUpAfterRetries(t *testing.T) {
	throttled := &smithy.GenericAPIError{Code: "Throttling"}
	api := &fakeSES{errs: []error{throttled, throttled, throttled}}
	p := notifxses.NewSESProvider(api, "noreply@example.com", notifxses.WithRetry(2, time.Millisecond))

	err := p.SendEmail(context.Background(), message())

	assert.True(t, errx.HasCode(err, notifxses.ErrSendFailed))
	var apiErr smithy.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Len(t, api.inputs, 3)
}

func TestSESProvider_NoSender(t *testing.T) {
	p := notifxses.NewSESProvider(&fakeSES{}, "")

	err := p.SendEmail(context.Background(), message())

	assert.True(t, errx.HasCode(err, notifxses.ErrNoSender))
}
