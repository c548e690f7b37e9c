package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/config"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService sends the transactional mails the back office needs.
type EmailService interface {
	SendCustomerInvitation(to string, data CustomerInvitationData) error
}

// CustomerInvitationData feeds customer_invitation.html.
type CustomerInvitationData struct {
	CustomerName string
	CompanyName  string
	AcceptURL    string
	ExpiresAt    time.Time
	IsResend     bool
	SupportEmail string
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	dialer    sender
	backoff   func(attempt int) time.Duration
}

// NewEmailService parses the embedded templates and prepares an SMTP dialer.
// With an empty SMTP host every send is logged and skipped.
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		dialer:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		backoff:   exponentialBackoff,
	}, nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"date": func(t time.Time) string { return t.UTC().Format("January 2, 2006 15:04 MST") },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return tmpl, nil
}

// 1s, 2s, 4s
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * time.Second
}

// SendCustomerInvitation mails the portal acceptance link.
func (s *emailServiceImpl) SendCustomerInvitation(to string, data CustomerInvitationData) error {
	if data.SupportEmail == "" {
		data.SupportEmail = s.cfg.From
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "customer_invitation.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("You're invited to the %s customer portal", data.CompanyName)
	if data.IsResend {
		subject = fmt.Sprintf("Reminder: your %s customer portal invitation", data.CompanyName)
	}

	return s.sendHTML(to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.dialer.DialAndSend(m)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		if attempt < maxRetries {
			time.Sleep(s.backoff(attempt))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
