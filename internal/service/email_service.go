package service

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"log"
	texttemplate "text/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"mindbridge/internal/models"
)

// sesClient is the part of the SES v2 API the email service uses
type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     sesClient
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. It is disabled when fromEmail is empty.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service: region=%s from=%s", awsRegion, fromEmail)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return newEmailService(sesv2.NewFromConfig(cfg), fromEmail, fromName, appBaseURL, debug), nil
}

func newEmailService(client sesClient, fromEmail, fromName, appBaseURL string, debug bool) *EmailService {
	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s != nil && s.enabled
}

var welcomeHTML = htmltemplate.Must(htmltemplate.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<h1 style="color: #7c3aed;">Welcome to MindBridge!</h1>
	<p>Hi {{.Name}},</p>
	<p>Your account is ready. Shapes, safe and unsafe objects, everyday gestures and math puzzles are waiting for you.</p>
	<p><a href="{{.BaseURL}}" style="display: inline-block; padding: 12px 30px; background-color: #7c3aed; color: white; text-decoration: none; border-radius: 5px;">Start playing</a></p>
	<p style="font-size: 12px; color: #666;">This is an automated email from MindBridge. Please do not reply.</p>
</body>
</html>
`))

var welcomeText = texttemplate.Must(texttemplate.New("welcome").Parse(`Hi {{.Name}},

Your account is ready. Shapes, safe and unsafe objects, everyday gestures and math puzzles are waiting for you.

Start playing: {{.BaseURL}}

---
This is an automated email from MindBridge. Please do not reply.
`))

var summaryHTML = htmltemplate.Must(htmltemplate.New("summary").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<h1 style="color: #7c3aed;">Quiz complete!</h1>
	<p>Hi {{.Name}},</p>
	<p>You finished a <strong>{{.Level}}</strong> {{.Game}} quiz.</p>
	<ul>
		<li>Score: {{.Score}}</li>
		<li>Time taken: {{.TimeTaken}} seconds</li>
	</ul>
	<p><a href="{{.BaseURL}}">Play again</a></p>
	<p style="font-size: 12px; color: #666;">This is an automated email from MindBridge. Please do not reply.</p>
</body>
</html>
`))

var summaryText = texttemplate.Must(texttemplate.New("summary").Parse(`Hi {{.Name}},

You finished a {{.Level}} {{.Game}} quiz.

Score: {{.Score}}
Time taken: {{.TimeTaken}} seconds

Play again: {{.BaseURL}}

---
This is an automated email from MindBridge. Please do not reply.
`))

type emailData struct {
	Name      string
	BaseURL   string
	Game      string
	Level     string
	Score     int
	TimeTaken int
}

func render(html *htmltemplate.Template, text *texttemplate.Template, data emailData) (string, string, error) {
	var hb, tb bytes.Buffer
	if err := html.Execute(&hb, data); err != nil {
		return "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	if err := text.Execute(&tb, data); err != nil {
		return "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	return hb.String(), tb.String(), nil
}

// SendWelcomeEmail sends a welcome email to new users
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.IsEnabled() {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	htmlBody, textBody, err := render(welcomeHTML, welcomeText, emailData{Name: toName, BaseURL: s.appBaseURL})
	if err != nil {
		return err
	}
	return s.sendEmail(ctx, toEmail, "Welcome to MindBridge!", htmlBody, textBody)
}

// SendQuizSummaryEmail sends the participant a summary of a completed quiz
func (s *EmailService) SendQuizSummaryEmail(ctx context.Context, rec models.ResultRecord) error {
	if !s.IsEnabled() {
		if s != nil && s.debug {
			log.Printf("[DEBUG] Skipping quiz summary email (service disabled): %s", rec.ParticipantEmail)
		}
		return nil
	}

	htmlBody, textBody, err := render(summaryHTML, summaryText, emailData{
		Name:      rec.ParticipantName,
		BaseURL:   s.appBaseURL,
		Game:      rec.GameName,
		Level:     rec.Difficulty,
		Score:     rec.Score,
		TimeTaken: rec.TimeTaken,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Your %s results", rec.GameName)
	return s.sendEmail(ctx, rec.ParticipantEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] Sending email: from=%s to=%s subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
