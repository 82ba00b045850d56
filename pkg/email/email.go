package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// Service sends notification emails via SMTP
type Service struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string // Review team inbox
}

// Config holds SMTP settings for the notification mailer
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	To       string
}

// SubmissionEmailData holds the data for profile submission notifications
type SubmissionEmailData struct {
	CandidateName  string
	CandidateEmail string
	ProfileID      string
	SubmittedAt    string
}

// NewService creates the notification mailer. Brevo uses the login
// email as the from address.
func NewService(cfg Config) *Service {
	return &Service{
		host:      cfg.Host,
		port:      cfg.Port,
		username:  cfg.Username,
		password:  cfg.Password,
		fromEmail: cfg.Username,
		toEmail:   cfg.To,
	}
}

// submissionEmailTemplate is the HTML template for submission notifications
const submissionEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Profile Submitted for Review</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .value { margin-top: 5px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Profile Submitted for Review</h1>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">Candidate:</div>
                <div class="value">{{.CandidateName}} ({{.CandidateEmail}})</div>
            </div>
            <div class="field">
                <div class="label">Profile ID:</div>
                <div class="value">{{.ProfileID}}</div>
            </div>
            <div class="field">
                <div class="label">Submitted at:</div>
                <div class="value">{{.SubmittedAt}}</div>
            </div>
        </div>
        <div class="footer">
            <p>The profile is waiting in the admin review queue.</p>
        </div>
    </div>
</body>
</html>`

// SendSubmissionNotification notifies the review team that a candidate
// completed onboarding and their profile entered the review queue.
func (s *Service) SendSubmissionNotification(data SubmissionEmailData) error {
	tmpl, err := template.New("submission").Parse(submissionEmailTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := fmt.Sprintf("Profile submitted: %s", data.CandidateEmail)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		s.toEmail,
		subject,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{s.toEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// IsConfigured checks whether SMTP settings are present
func (s *Service) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
