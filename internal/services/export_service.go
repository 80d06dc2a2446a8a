package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/vendorly/kyc-api/internal/repository"
	"github.com/xuri/excelize/v2"
)

type ExportService struct {
	appRepo repository.ApplicationRepository
}

func NewExportService(appRepo repository.ApplicationRepository) *ExportService {
	return &ExportService{appRepo: appRepo}
}

// ExportCSV generates a CSV register of vendor applications
func (s *ExportService) ExportCSV(ctx context.Context, query *repository.ApplicationQuery) ([]byte, string, error) {
	apps, _, err := s.appRepo.List(ctx, query)
	if err != nil {
		return nil, "", err
	}
	stats, err := s.appRepo.GetStats(ctx)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	// Header
	_ = writer.Write([]string{"Vendor Application Register", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	// Summary Section
	_ = writer.Write([]string{"Summary"})
	_ = writer.Write([]string{"Status", "Count"})
	_ = writer.Write([]string{"Pending", fmt.Sprintf("%d", stats.Pending)})
	_ = writer.Write([]string{"Approved", fmt.Sprintf("%d", stats.Approved)})
	_ = writer.Write([]string{"Rejected", fmt.Sprintf("%d", stats.Rejected)})
	_ = writer.Write([]string{"Total", fmt.Sprintf("%d", stats.Total)})
	_ = writer.Write([]string{""})

	// Register Section
	_ = writer.Write([]string{"Applications"})
	_ = writer.Write([]string{
		"ID", "Business Name", "Business Type", "Email", "City", "State",
		"GST Number", "PAN Number", "Status", "Documents", "Submitted", "Reviewed",
	})

	for _, app := range apps {
		reviewedAt := ""
		if app.ReviewedAt != nil {
			reviewedAt = app.ReviewedAt.Format("2006-01-02")
		}
		record := []string{
			fmt.Sprintf("%d", app.ID),
			app.BusinessName,
			app.BusinessType,
			app.Email,
			app.City,
			app.State,
			app.GSTNumber,
			app.PANNumber,
			app.Status,
			fmt.Sprintf("%d", len(app.Documents)),
			app.CreatedAt.Format("2006-01-02"),
			reviewedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("vendor_applications_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportXLSX generates an Excel register of vendor applications
func (s *ExportService) ExportXLSX(ctx context.Context, query *repository.ApplicationQuery) ([]byte, string, error) {
	apps, _, err := s.appRepo.List(ctx, query)
	if err != nil {
		return nil, "", err
	}
	stats, err := s.appRepo.GetStats(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Applications"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Vendor Application Register")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// Summary
	_ = f.SetCellValue(sheet, "A3", "Summary")
	_ = f.SetCellValue(sheet, "A4", "Status")
	_ = f.SetCellValue(sheet, "B4", "Count")
	_ = f.SetCellValue(sheet, "A5", "Pending")
	_ = f.SetCellValue(sheet, "B5", stats.Pending)
	_ = f.SetCellValue(sheet, "A6", "Approved")
	_ = f.SetCellValue(sheet, "B6", stats.Approved)
	_ = f.SetCellValue(sheet, "A7", "Rejected")
	_ = f.SetCellValue(sheet, "B7", stats.Rejected)
	_ = f.SetCellValue(sheet, "A8", "Total")
	_ = f.SetCellValue(sheet, "B8", stats.Total)

	// Register
	columns := []string{
		"ID", "Business Name", "Business Type", "Email", "City", "State",
		"GST Number", "PAN Number", "Status", "Documents", "Submitted", "Reviewed",
	}
	headerRow := 10
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(sheet, cell, col)
	}

	for i, app := range apps {
		row := headerRow + 1 + i
		reviewedAt := ""
		if app.ReviewedAt != nil {
			reviewedAt = app.ReviewedAt.Format("2006-01-02")
		}
		values := []interface{}{
			app.ID,
			app.BusinessName,
			app.BusinessType,
			app.Email,
			app.City,
			app.State,
			app.GSTNumber,
			app.PANNumber,
			app.Status,
			len(app.Documents),
			app.CreatedAt.Format("2006-01-02"),
			reviewedAt,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("vendor_applications_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportDossierPDF generates a PDF dossier for one application: business
// details, document inventory and the audit trail.
func (s *ExportService) ExportDossierPDF(ctx context.Context, applicationID uint) ([]byte, string, error) {
	app, err := s.appRepo.FindByIDWithDetails(ctx, applicationID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Vendor Application Dossier")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Business Details")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	detail := func(label, value string) {
		pdf.Cell(60, 10, label)
		pdf.Cell(100, 10, value)
		pdf.Ln(6)
	}

	detail("Application ID:", fmt.Sprintf("%d", app.ID))
	detail("Business Name:", app.BusinessName)
	detail("Business Type:", app.BusinessType)
	detail("Contact Number:", app.ContactNumber)
	detail("Email:", app.Email)
	detail("Address:", app.Address)
	detail("City / State:", fmt.Sprintf("%s, %s - %s", app.City, app.State, app.Pincode))
	detail("GST Number:", app.GSTNumber)
	detail("PAN Number:", app.PANNumber)
	detail("Status:", app.Status)
	detail("Submitted:", app.CreatedAt.Format("02/01/2006 15:04"))
	if app.ReviewedAt != nil {
		detail("Reviewed:", app.ReviewedAt.Format("02/01/2006 15:04"))
	}
	if app.RejectionReason != nil && *app.RejectionReason != "" {
		detail("Rejection Reason:", *app.RejectionReason)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Documents")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if len(app.Documents) == 0 {
		pdf.Cell(100, 10, "No documents on file")
		pdf.Ln(6)
	}
	for _, doc := range app.Documents {
		pdf.Cell(30, 10, doc.DocumentType)
		pdf.Cell(70, 10, doc.FileName)
		pdf.Cell(40, 10, fmt.Sprintf("%d KB", doc.SizeBytes/1024))
		pdf.Cell(40, 10, doc.UploadedAt.Format("02/01/2006"))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Audit Trail")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if len(app.AuditLogs) == 0 {
		pdf.Cell(100, 10, "No review activity")
		pdf.Ln(6)
	}
	for _, entry := range app.AuditLogs {
		pdf.Cell(35, 10, entry.CreatedAt.Format("02/01/2006 15:04"))
		pdf.Cell(25, 10, entry.Action)
		pdf.Cell(50, 10, fmt.Sprintf("%s -> %s", entry.PreviousStatus, entry.NewStatus))
		pdf.Cell(70, 10, entry.Comments)
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("application_%d_dossier.pdf", app.ID)
	return buf.Bytes(), filename, nil
}
