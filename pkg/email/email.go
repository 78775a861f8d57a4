package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"resumeai-backend/config"
)

// ErrNotConfigured is returned when SMTP credentials are absent.
var ErrNotConfigured = errors.New("email: smtp not configured")

// Message is one outbound HTML email.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// sendFunc matches smtp.SendMail so tests can capture outgoing mail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	send      sendFunc
}

// NewEmailService creates a new email service from the SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: from,
		send:      smtp.SendMail,
	}
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s != nil && s.host != "" && s.username != "" && s.password != ""
}

// Send delivers msg. Header values are stripped of CR/LF.
func (s *EmailService) Send(msg Message) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	headers := []string{
		"From: " + headerValue(s.fromEmail),
		"To: " + headerValue(msg.To),
	}
	if msg.ReplyTo != "" {
		headers = append(headers, "Reply-To: "+headerValue(msg.ReplyTo))
	}
	headers = append(headers,
		"Subject: "+headerValue(msg.Subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	)
	raw := []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + msg.HTML)

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{headerValue(msg.To)}, raw); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func headerValue(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}

// UserMessageData is rendered into a plain branded wrapper.
type UserMessageData struct {
	SenderEmail string
	Body        string
}

const userMessageTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px; white-space: pre-wrap;">{{.Body}}</div>
  <div style="max-width: 600px; margin: 0 auto; padding: 0 20px; color: #888; font-size: 12px;">
    Sent by {{.SenderEmail}} via ResumeAI. Reply to respond directly.
  </div>
</body>
</html>`

// DigestJob is one line of an alert digest.
type DigestJob struct {
	Title      string
	Company    string
	Location   string
	ApplyURL   string
	MatchScore int
}

// DigestData is the job-alert digest body.
type DigestData struct {
	Query    string
	Location string
	Jobs     []DigestJob
	AppURL   string
}

const digestTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.5; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #0f172a;">New jobs for "{{.Query}}"{{if .Location}} in {{.Location}}{{end}}</h2>
    {{range .Jobs}}
    <div style="padding: 12px 0; border-bottom: 1px solid #e5e7eb;">
      <a href="{{.ApplyURL}}" style="font-weight: bold; color: #2563eb;">{{.Title}}</a>
      <div>{{.Company}}{{if .Location}} · {{.Location}}{{end}}</div>
      {{if .MatchScore}}<div style="color: #16a34a;">{{.MatchScore}}% match</div>{{end}}
    </div>
    {{end}}
    <p style="color: #888; font-size: 12px;">Manage alerts at <a href="{{.AppURL}}">{{.AppURL}}</a>.</p>
  </div>
</body>
</html>`

var (
	userMessageTmpl = template.Must(template.New("user").Parse(userMessageTemplate))
	digestTmpl      = template.Must(template.New("digest").Parse(digestTemplate))
)

// RenderUserMessage wraps a user-authored body. html/template escapes it.
func RenderUserMessage(data UserMessageData) (string, error) {
	var body bytes.Buffer
	if err := userMessageTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

// RenderDigest renders an alert digest.
func RenderDigest(data DigestData) (string, error) {
	var body bytes.Buffer
	if err := digestTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute digest template: %w", err)
	}
	return body.String(), nil
}
