package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"
	"github.com/vendorly/kyc-api/internal/config"
	"github.com/vendorly/kyc-api/internal/models"
	"github.com/vendorly/kyc-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

func (s *EmailService) SendApplicationSubmitted(ctx context.Context, user *models.User, app *models.VendorApplication) error {
	data := struct {
		Name          string
		BusinessName  string
		SubmittedAt   string
		DocumentCount int
		AppURL        string
	}{
		Name:          user.FullName,
		BusinessName:  app.BusinessName,
		SubmittedAt:   app.CreatedAt.Format("02/01/2006 15:04"),
		DocumentCount: len(app.Documents),
		AppURL:        s.config.AppURL,
	}

	return s.send(user.Email, "Application Received", "application_submitted.html", data)
}

func (s *EmailService) SendApplicationApproved(ctx context.Context, user *models.User, app *models.VendorApplication) error {
	approvedAt := ""
	if app.ReviewedAt != nil {
		approvedAt = app.ReviewedAt.Format("02/01/2006 15:04")
	}

	data := struct {
		Name         string
		BusinessName string
		ApprovedAt   string
		AppURL       string
	}{
		Name:         user.FullName,
		BusinessName: app.BusinessName,
		ApprovedAt:   approvedAt,
		AppURL:       s.config.AppURL,
	}

	return s.send(user.Email, "Application Approved", "application_approved.html", data)
}

func (s *EmailService) SendApplicationRejected(ctx context.Context, user *models.User, app *models.VendorApplication) error {
	reason := ""
	if app.RejectionReason != nil {
		reason = *app.RejectionReason
	}

	data := struct {
		Name         string
		BusinessName string
		Reason       string
		AppURL       string
	}{
		Name:         user.FullName,
		BusinessName: app.BusinessName,
		Reason:       reason,
		AppURL:       s.config.AppURL,
	}

	return s.send(user.Email, "Application Rejected", "application_rejected.html", data)
}

func (s *EmailService) send(to, subject, templateName string, data interface{}) error {
	if s.config.ResendAPIKey == "" {
		logger.Warn(fmt.Sprintf("Email to %s skipped (subject: %s): RESEND_API_KEY not configured", to, subject))
		return nil
	}

	body, err := s.renderTemplate(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.resendClient.Emails.Send(params); err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", to, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", to, subject))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
