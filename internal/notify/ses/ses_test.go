package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyminder/internal/log"
	"moneyminder/internal/notify"
)

type fakeSES struct {
	in  *sesv2.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSendBuildsSimpleMessage(t *testing.T) {
	api := &fakeSES{}
	s, err := New(api, "alerts@moneyminder.app", log.Discard())
	require.NoError(t, err)

	err = s.Send(context.Background(), notify.Email{
		To: "alice@example.com", Subject: "MoneyMinder Budget Alert", Text: "plain", HTML: "<p>html</p>",
	})
	require.NoError(t, err)

	require.NotNil(t, api.in)
	assert.Equal(t, "alerts@moneyminder.app", aws.ToString(api.in.FromEmailAddress))
	assert.Equal(t, []string{"alice@example.com"}, api.in.Destination.ToAddresses)
	msg := api.in.Content.Simple
	assert.Equal(t, "MoneyMinder Budget Alert", aws.ToString(msg.Subject.Data))
	assert.Equal(t, "plain", aws.ToString(msg.Body.Text.Data))
	assert.Equal(t, "<p>html</p>", aws.ToString(msg.Body.Html.Data))
}

func TestSendTextOnly(t *testing.T) {
	api := &fakeSES{}
	s, err := New(api, "from@example.com", log.Discard())
	require.NoError(t, err)

	require.NoError(t, s.Send(context.Background(), notify.Email{To: "a@b.c", Subject: "s", Text: "t"}))
	assert.Nil(t, api.in.Content.Simple.Body.Html)
}

func TestSendErrors(t *testing.T) {
	api := &fakeSES{err: errors.New("MessageRejected")}
	s, err := New(api, "from@example.com", log.Discard())
	require.NoError(t, err)

	err = s.Send(context.Background(), notify.Email{To: "a@b.c", Subject: "s", Text: "t"})
	assert.ErrorContains(t, err, "MessageRejected")

	api.in = nil
	err = s.Send(context.Background(), notify.Email{Subject: "s", Text: "t"})
	assert.Error(t, err)
	assert.Nil(t, api.in, "invalid email never reaches SES")

	_, err = New(api, "", log.Discard())
	assert.Error(t, err)
}
