// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"

	"github.com/resendlabs/resend-go"

	"github.com/moodayhq/mooday-go/pkg/config"
)

// Service defines the interface for sending emails, allowing for mock
// implementations in tests.
type Service interface {
	SendPasswordResetEmail(toEmail, resetToken string) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	resetBase string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	if config.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	return &ResendClient{
		client:    resend.NewClient(config.ResendAPIKey),
		fromEmail: config.EmailFrom,
		fromName:  config.EmailFromName,
		resetBase: config.ResetBaseURL,
	}, nil
}

// SendPasswordResetEmail composes and sends the password recovery email.
func (c *ResendClient) SendPasswordResetEmail(toEmail, resetToken string) error {
	resetURL := fmt.Sprintf("%s?token=%s", c.resetBase, resetToken)

	html := fmt.Sprintf(`
		<h2>Reset your Mooday password</h2>
		<p>Someone asked to reset the password for this address. If that was you,
		follow the link below; if not, you can ignore this email.</p>
		<p><a href="%s">Reset password</a></p>
		<p>This link expires in 1 hour.</p>`, resetURL)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: "Reset your Mooday password",
		Html:    html,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// NoopService is used when no email provider is configured; reset emails
// are dropped rather than failing the whole auth flow.
type NoopService struct{}

// SendPasswordResetEmail discards the email.
func (NoopService) SendPasswordResetEmail(toEmail, resetToken string) error {
	return nil
}
