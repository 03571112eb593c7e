package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindbridge/internal/models"
)

type fakeSES struct {
	mu   sync.Mutex
	sent []*sesv2.SendEmailInput
	fail error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	f.sent = append(f.sent, in)
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func (f *fakeSES) messages() []*sesv2.SendEmailInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*sesv2.SendEmailInput(nil), f.sent...)
}

func TestDisabledEmailService(t *testing.T) {
	svc, err := NewEmailService("us-east-1", "", "MindBridge", "http://localhost", false)
	require.NoError(t, err)
	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.SendWelcomeEmail(context.Background(), "kid@example.com", "Kid"))

	var nilSvc *EmailService
	assert.False(t, nilSvc.IsEnabled())
	assert.NoError(t, nilSvc.SendQuizSummaryEmail(context.Background(), models.ResultRecord{}))
}

func TestSendWelcomeEmail(t *testing.T) {
	ses := &fakeSES{}
	svc := newEmailService(ses, "noreply@example.com", "MindBridge", "https://mindbridge.test", false)

	require.NoError(t, svc.SendWelcomeEmail(context.Background(), "kid@example.com", "Ada"))

	msgs := ses.messages()
	require.Len(t, msgs, 1)
	msg := msgs[0]
	assert.Equal(t, "MindBridge <noreply@example.com>", aws.ToString(msg.FromEmailAddress))
	assert.Equal(t, []string{"kid@example.com"}, msg.Destination.ToAddresses)
	assert.Equal(t, "Welcome to MindBridge!", aws.ToString(msg.Content.Simple.Subject.Data))
	assert.Contains(t, aws.ToString(msg.Content.Simple.Body.Html.Data), "Hi Ada,")
	assert.Contains(t, aws.ToString(msg.Content.Simple.Body.Text.Data), "https://mindbridge.test")
}

func TestSendQuizSummaryEmail(t *testing.T) {
	ses := &fakeSES{}
	svc := newEmailService(ses, "noreply@example.com", "", "https://mindbridge.test", true)

	rec := models.ResultRecord{
		ParticipantName:  "<Ada>",
		ParticipantEmail: "kid@example.com",
		GameName:         "Math Game",
		Difficulty:       "easy",
		Score:            5,
		TimeTaken:        42,
	}
	require.NoError(t, svc.SendQuizSummaryEmail(context.Background(), rec))

	msgs := ses.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "noreply@example.com", aws.ToString(msgs[0].FromEmailAddress))
	assert.Equal(t, "Your Math Game results", aws.ToString(msgs[0].Content.Simple.Subject.Data))

	html := aws.ToString(msgs[0].Content.Simple.Body.Html.Data)
	assert.Contains(t, html, "&lt;Ada&gt;")
	assert.Contains(t, html, "Score: 5")

	text := aws.ToString(msgs[0].Content.Simple.Body.Text.Data)
	assert.Contains(t, text, "Hi <Ada>,")
	assert.Contains(t, text, "Time taken: 42 seconds")
}

func TestSendEmailFailure(t *testing.T) {
	svc := newEmailService(&fakeSES{fail: errors.New("throttled")}, "noreply@example.com", "", "", false)

	err := svc.SendWelcomeEmail(context.Background(), "kid@example.com", "Ada")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kid@example.com")
}
