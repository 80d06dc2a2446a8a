package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/vendorly/kyc-api/internal/models"
	"github.com/vendorly/kyc-api/internal/repository"
)

type ReportService struct {
	appRepo  repository.ApplicationRepository
	userRepo repository.UserRepository
}

func NewReportService(appRepo repository.ApplicationRepository, userRepo repository.UserRepository) *ReportService {
	return &ReportService{
		appRepo:  appRepo,
		userRepo: userRepo,
	}
}

// GenerateApprovalLetterPDF renders the formal approval letter for an approved
// application. Returns ErrInvalidState when the application is not approved.
func (s *ReportService) GenerateApprovalLetterPDF(ctx context.Context, applicationID uint) (*bytes.Buffer, error) {
	app, err := s.appRepo.FindByIDWithDetails(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if app.Status != models.ApplicationStatusApproved {
		return nil, ErrInvalidState
	}

	approvedAt := ""
	if app.ReviewedAt != nil {
		approvedAt = app.ReviewedAt.Format("02/01/2006")
	}

	reviewerName := ""
	if app.Reviewer != nil {
		reviewerName = app.Reviewer.FullName
	}

	data := map[string]interface{}{
		"BusinessName":  app.BusinessName,
		"BusinessType":  app.BusinessType,
		"OwnerName":     app.User.FullName,
		"Address":       app.Address,
		"City":          app.City,
		"State":         app.State,
		"Pincode":       app.Pincode,
		"GSTNumber":     app.GSTNumber,
		"PANNumber":     app.PANNumber,
		"ApplicationID": app.ID,
		"ApprovedAt":    approvedAt,
		"ReviewerName":  reviewerName,
		"Date":          time.Now().Format("02/01/2006"),
	}

	return s.generatePDF("approval_letter.html", data)
}

// Helper to generate PDF from HTML template
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	// Try path relative to project root (Prod)
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		// Try path relative to package (Test)
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s (path: %s): %w", templateName, tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}
