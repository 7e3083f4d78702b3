package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"signal-portfolio/pkg/config"
	"signal-portfolio/pkg/logging"
	"signal-portfolio/pkg/metrics"
	"signal-portfolio/pkg/models"
	"signal-portfolio/pkg/repository"
)

const inquirySubject = "New inquiry from %s"

const inquiryEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #111;">
  <h2 style="letter-spacing: 0.1em;">SIGNAL / NEW INQUIRY</h2>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
  <p><strong>Received:</strong> {{.CreatedAt.Format "2006-01-02 15:04 MST"}}</p>
  <hr>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
  <p style="color: #888; font-size: 12px;">Reference {{.ID}}</p>
</body>
</html>`

var inquiryEmail = template.Must(template.New("inquiry").Parse(inquiryEmailTemplate))

// Mailer delivers an HTML message to one recipient
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain SMTP relay
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a mailer for the relay in cfg
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers htmlBody to a single address
func (m *SMTPMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	if m.cfg.Host == "" {
		return errors.New("SMTP not configured")
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	return smtp.SendMail(addr, auth, from, []string{to}, buildMessage(from, to, subject, htmlBody))
}

var headerSafe = strings.NewReplacer("\r", " ", "\n", " ")

func buildMessage(from, to, subject, htmlBody string) []byte {
	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var msg bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", h[0], headerSafe.Replace(h[1]))
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return msg.Bytes()
}

// RenderInquiryEmail renders the notification body for an inquiry
func RenderInquiryEmail(inquiry *models.Inquiry) (string, error) {
	var body bytes.Buffer
	if err := inquiryEmail.Execute(&body, inquiry); err != nil {
		return "", fmt.Errorf("failed to execute inquiry email template: %w", err)
	}
	return body.String(), nil
}

// ContactService accepts contact form submissions
type ContactService struct {
	repo   repository.InquiryRepo
	mailer Mailer
	to     string
}

// NewContactService stores inquiries in repo. When mailer is non-nil and to
// is set, each accepted inquiry is also mailed to that address.
func NewContactService(repo repository.InquiryRepo, mailer Mailer, to string) *ContactService {
	return &ContactService{repo: repo, mailer: mailer, to: to}
}

// Submit validates and stores a form. A *models.ValidationError is returned
// for invalid input. A failed notification is logged and does not fail the
// submission.
func (s *ContactService) Submit(ctx context.Context, form models.InquiryForm) (*models.Inquiry, error) {
	inquiry, err := models.NewInquiry(form)
	if err != nil {
		metrics.RecordInquiry("invalid")
		return nil, err
	}

	if err := s.repo.Create(ctx, inquiry); err != nil {
		metrics.RecordInquiry("error")
		return nil, fmt.Errorf("failed to store inquiry: %w", err)
	}
	metrics.RecordInquiry("accepted")
	logging.L().Info("inquiry received", zap.String("id", inquiry.ID))

	s.notify(ctx, inquiry)
	return inquiry, nil
}

func (s *ContactService) notify(ctx context.Context, inquiry *models.Inquiry) {
	if s.mailer == nil || s.to == "" {
		return
	}

	body, err := RenderInquiryEmail(inquiry)
	if err != nil {
		logging.L().Error("failed to render inquiry email", zap.Error(err))
		return
	}
	if err := s.mailer.Send(ctx, s.to, fmt.Sprintf(inquirySubject, inquiry.Name), body); err != nil {
		logging.L().Warn("failed to send inquiry email", zap.String("id", inquiry.ID), zap.Error(err))
	}
}

// Recent returns the newest inquiries first
func (s *ContactService) Recent(ctx context.Context, limit int) ([]*models.Inquiry, error) {
	return s.repo.List(ctx, limit)
}
