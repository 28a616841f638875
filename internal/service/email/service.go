package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"talenthub-backend/internal/config"
)

// Service sends best-effort notification emails. Delivery guarantees live
// in the notifications table, not here; a failed email is logged by the
// caller and never retried.
type Service interface {
	SendEventReminderEmail(ctx context.Context, toEmail, recipientName, eventTitle, startAt string) error
	SendNewPostEmail(ctx context.Context, toEmail, recipientName, actorName string) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &service{
		client: client,
		config: cfg,
	}
}

var bodyTemplate = template.Must(template.New("body").Parse(`
<html>
  <body style="font-family: sans-serif; color: #1f2933;">
    <h2>{{.Title}}</h2>
    <p>Hi {{.Name}},</p>
    <p>{{.Body}}</p>
    <p><a href="{{.Link}}">Open TalentHub</a></p>
  </body>
</html>`))

func (s *service) sendEmail(toEmail, subject, title, name, body string) error {
	data := struct {
		Title string
		Name  string
		Body  string
		Link  string
	}{
		Title: title,
		Name:  name,
		Body:  body,
		Link:  fmt.Sprintf("https://%s/notifications", s.config.Domain),
	}

	var html bytes.Buffer
	if err := bodyTemplate.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("TalentHub <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    html.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}

func (s *service) SendEventReminderEmail(ctx context.Context, toEmail, recipientName, eventTitle, startAt string) error {
	return s.sendEmail(
		toEmail,
		fmt.Sprintf("Reminder: %s", eventTitle),
		"Upcoming event",
		recipientName,
		fmt.Sprintf("%s starts at %s. See you there!", eventTitle, startAt),
	)
}

func (s *service) SendNewPostEmail(ctx context.Context, toEmail, recipientName, actorName string) error {
	return s.sendEmail(
		toEmail,
		fmt.Sprintf("%s published a new post", actorName),
		"New post",
		recipientName,
		fmt.Sprintf("%s just published a new post you might be interested in.", actorName),
	)
}
