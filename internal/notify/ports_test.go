package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyminder/internal/log"
)

func TestEmailValidate(t *testing.T) {
	ok := Email{To: "a@b.c", Subject: "s", Text: "t"}
	assert.NoError(t, ok.Validate())

	assert.Error(t, Email{Subject: "s", Text: "t"}.Validate())
	assert.Error(t, Email{To: "a@b.c", Text: "t"}.Validate())
	assert.Error(t, Email{To: "a@b.c", Subject: "s"}.Validate())
	assert.NoError(t, Email{To: "a@b.c", Subject: "s", HTML: "<p>x</p>"}.Validate())
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(log.New(log.Config{Output: &buf, Component: log.ComponentApp}))

	err := s.Send(context.Background(), Email{To: "u@example.com", Subject: "MoneyMinder Budget Alert", Text: "over"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "u@example.com")
	assert.Contains(t, buf.String(), "component=notify")

	assert.Error(t, s.Send(context.Background(), Email{}))
}

func TestSenderFunc(t *testing.T) {
	var got Email
	var s Sender = SenderFunc(func(_ context.Context, e Email) error { got = e; return nil })
	require.NoError(t, s.Send(context.Background(), Email{To: "x"}))
	assert.Equal(t, "x", got.To)
}
