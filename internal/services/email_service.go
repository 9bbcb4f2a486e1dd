package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/startrack/intake-backend/internal/config"
	"github.com/startrack/intake-backend/internal/models"
)

type EmailService struct {
	config *config.Config
	tmpl   *template.Template
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config: cfg,
		tmpl:   template.Must(template.New("email").Parse(BaseEmailTemplate)),
	}
}

// EmailData contains common email template data
type EmailData struct {
	AppName     string
	AppURL      string
	UserName    string
	UserEmail   string
	Subject     string
	Content     template.HTML
	ActionURL   string
	ActionLabel string
}

// BaseEmailTemplate is the base HTML email template
const BaseEmailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1f3b6f; color: white; padding: 30px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 8px 8px; }
        .button { display: inline-block; background: #1f3b6f; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
        .footer { text-align: center; color: #888; font-size: 12px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.AppName}}</h1>
        </div>
        <div class="content">
            <p>Hi {{.UserName}},</p>
            {{.Content}}
            {{if .ActionURL}}
            <p style="text-align: center;">
                <a href="{{.ActionURL}}" class="button">{{.ActionLabel}}</a>
            </p>
            {{end}}
        </div>
        <div class="footer">
            <p>&copy; {{.AppName}}. All rights reserved.</p>
            <p>This is an automated message. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
`

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to, subject, body string) error {
	if s.config.SMTPHost == "" {
		slog.Info("email not sent, SMTP disabled", "to", to, "subject", subject)
		return nil
	}

	from := s.config.FromEmail
	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPassword, s.config.SMTPHost)

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		from, to, subject)

	msg := []byte(headers + body)

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}

// renderEmail renders an email using the base template
func (s *EmailService) renderEmail(data EmailData) (string, error) {
	data.AppName = s.config.AppName
	data.AppURL = s.config.AppURL

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// send renders data and mails it to its recipient
func (s *EmailService) send(data EmailData) error {
	body, err := s.renderEmail(data)
	if err != nil {
		return err
	}
	return s.sendEmail(data.UserEmail, data.Subject, body)
}

// SendAccountActivatedEmail tells a user their account can now sign in
func (s *EmailService) SendAccountActivatedEmail(user *models.User) error {
	return s.send(EmailData{
		UserName:    user.FirstName,
		UserEmail:   user.Email,
		Subject:     "Your account has been activated",
		Content:     template.HTML("<p>An administrator has activated your " + template.HTMLEscapeString(s.config.AppName) + " account. You can now sign in.</p>"),
		ActionURL:   s.config.AppURL,
		ActionLabel: "Sign In",
	})
}

// SendPasswordResetEmail tells a user an administrator reset their password.
// The new password is never included.
func (s *EmailService) SendPasswordResetEmail(user *models.User) error {
	return s.send(EmailData{
		UserName:  user.FirstName,
		UserEmail: user.Email,
		Subject:   "Your password has been reset",
		Content: template.HTML("<p>An administrator has reset your password to the default. " +
			"Please sign in and change it as soon as possible.</p>"),
		ActionURL:   s.config.AppURL,
		ActionLabel: "Sign In",
	})
}

// SendProjectStatusNotification tells the principal investigator that the
// status of their submission changed
func (s *EmailService) SendProjectStatusNotification(project *models.Project) error {
	content := fmt.Sprintf(`
		<p>The status of your project <strong>%s</strong> is now <strong>%s</strong>.</p>
		<p>Log in to review the submission.</p>
	`, template.HTMLEscapeString(project.ProjectName), project.ApplyValue)

	return s.send(EmailData{
		UserName:    project.FirstNamePI,
		UserEmail:   project.EmailPI,
		Subject:     fmt.Sprintf("Project %s: %s", project.ProjectName, project.ApplyValue),
		Content:     template.HTML(content),
		ActionURL:   s.config.AppURL,
		ActionLabel: "View Project",
	})
}
