package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/reporting"
)

const (
	// PlaceholderKey is the value shipped in sample configs.
	PlaceholderKey = "YOUR_SENDGRID_API_KEY_HERE"
	defaultSubject = "Your AI-Powered News Newsletter"
	sendPath       = "/v3/mail/send"
)

// sendFunc is the single outbound call; swapped in tests.
type sendFunc func(ctx context.Context, req rest.Request) (*rest.Response, error)

// Notifier delivers newsletters through the SendGrid v3 mail API.
type Notifier struct {
	apiKey  string
	host    string
	sender  string
	subject string
	send    sendFunc
	logger  *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers credentials and addresses.
func NewNotifier(cfg config.EmailConfig, log *slog.Logger) *Notifier {
	subject := cfg.Subject
	if subject == "" {
		subject = defaultSubject
	}
	return &Notifier{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		host:    cfg.Host,
		sender:  cfg.Sender,
		subject: subject,
		send:    defaultSend,
		logger:  log,
	}
}

func defaultSend(_ context.Context, req rest.Request) (*rest.Response, error) {
	return sendgrid.MakeRequest(req)
}

// SendNewsletter submits one HTML email. It refuses to call out when the key
// is missing or still the placeholder.
func (n *Notifier) SendNewsletter(ctx context.Context, recipient, htmlContent string) error {
	if err := n.validate(recipient); err != nil {
		n.logError("newsletter not sent", "error", err)
		return err
	}

	message := mail.NewV3MailInit(
		mail.NewEmail("", n.sender),
		n.subject,
		mail.NewEmail("", recipient),
		mail.NewContent("text/html", htmlContent),
	)

	req := sendgrid.GetRequest(n.apiKey, sendPath, n.host)
	req.Method = rest.Post
	req.Body = mail.GetRequestBody(message)

	n.info("submitting newsletter", "provider", "sendgrid", "recipient", recipient)
	resp, err := n.send(ctx, req)
	if err != nil && resp == nil {
		err = fmt.Errorf("%w: sendgrid request: %v", domain.ErrTransport, err)
		n.logError("newsletter delivery failed", "error", err)
		reporting.Capture("email", err)
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = fmt.Errorf("%w: sendgrid status %d: %s", domain.ErrProvider, resp.StatusCode, errorDetails(resp.Body))
		n.logError("newsletter delivery failed", "status", resp.StatusCode, "error", err)
		reporting.Capture("email", err)
		return err
	}

	n.info("newsletter sent", "status", resp.StatusCode)
	return nil
}

func (n *Notifier) validate(recipient string) error {
	switch {
	case n.apiKey == "" || strings.Contains(n.apiKey, PlaceholderKey):
		return fmt.Errorf("%w: SENDGRID_API_KEY is not set", domain.ErrConfiguration)
	case n.sender == "":
		return fmt.Errorf("%w: SENDER_EMAIL is not set", domain.ErrConfiguration)
	case strings.TrimSpace(recipient) == "":
		return fmt.Errorf("%w: RECIPIENT_EMAIL is not set", domain.ErrConfiguration)
	}
	return nil
}

// errorDetails flattens SendGrid's {"errors":[{"message":..}]} body.
func errorDetails(body string) string {
	var payload struct {
		Errors []struct {
			Message string `json:"message"`
			Field   string `json:"field"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil || len(payload.Errors) == 0 {
		return strings.TrimSpace(body)
	}

	msgs := make([]string, 0, len(payload.Errors))
	for _, e := range payload.Errors {
		if e.Field != "" {
			msgs = append(msgs, e.Field+": "+e.Message)
			continue
		}
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func (n *Notifier) info(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Info(msg, args...)
	}
}

func (n *Notifier) logError(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Error(msg, args...)
	}
}
