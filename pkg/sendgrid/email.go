package sendgrid

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ErrNotConfigured is returned by Send when no API key is set. Callers record
// the notification as failed instead of calling the provider.
var ErrNotConfigured = errors.New("sendgrid api key is not configured")

const maxErrorBody = 256

type EmailService interface {
	Send(ctx context.Context, req *models.EmailNotificationRequest) error
	GetSendGridClient() *sendgrid.Client
}

type emailService struct {
	client    *sendgrid.Client
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey string, fromEmail string, fromName string) EmailService {
	return &emailService{
		client:    sendgrid.NewSendClient(apiKey),
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (e *emailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	if e.apiKey == "" {
		return ErrNotConfigured
	}

	response, err := e.client.SendWithContext(ctx, e.buildMessage(req))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		body := response.Body
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}

		return fmt.Errorf("failed to send email, status code: %d: %s", response.StatusCode, body)
	}

	return nil
}

// buildMessage maps the request onto a single personalization. Metadata such
// as the order code travels as custom args so provider webhooks can be
// correlated with the order.
func (e *emailService) buildMessage(req *models.EmailNotificationRequest) *mail.SGMailV3 {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(e.fromName, e.fromEmail))

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", req.To))

	for _, cc := range req.CC {
		p.AddCCs(mail.NewEmail("", cc))
	}

	for _, bcc := range req.BCC {
		p.AddBCCs(mail.NewEmail("", bcc))
	}

	for k, v := range req.Metadata {
		p.SetCustomArg(k, v)
	}

	p.Subject = req.Subject
	message.AddPersonalizations(p)

	message.AddContent(mail.NewContent("text/plain", req.Content))

	if req.HTMLContent != "" {
		message.AddContent(mail.NewContent("text/html", req.HTMLContent))
	}

	return message
}

// GetSendGridClient exposes the underlying client so callers can point it
// at another base URL.
func (e *emailService) GetSendGridClient() *sendgrid.Client {
	return e.client
}
