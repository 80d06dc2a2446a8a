package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vendorly/kyc-api/internal/middleware"
	"github.com/vendorly/kyc-api/internal/repository"
	"github.com/vendorly/kyc-api/internal/services"
	"gorm.io/gorm"
)

// AdminHandler serves the review and register surface. All routes behind it
// require the admin role.
type AdminHandler struct {
	applicationService *services.ApplicationService
	auditService       *services.AuditService
	exportService      *services.ExportService
	reportService      *services.ReportService
}

func NewAdminHandler(
	applicationService *services.ApplicationService,
	auditService *services.AuditService,
	exportService *services.ExportService,
	reportService *services.ReportService,
) *AdminHandler {
	return &AdminHandler{
		applicationService: applicationService,
		auditService:       auditService,
		exportService:      exportService,
		reportService:      reportService,
	}
}

func applicationQueryFromContext(c *gin.Context) *repository.ApplicationQuery {
	query := &repository.ApplicationQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 {
		query.PerPage = 20
	}
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")
	return query
}

// @Summary List Applications
// @Description Get a paginated list of vendor applications, optionally filtered by status
// @Tags Admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param status query string false "Filter by status (pending, approved, rejected, all)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/applications [get]
func (h *AdminHandler) Index(c *gin.Context) {
	query := applicationQueryFromContext(c)

	apps, total, err := h.applicationService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, app := range apps {
		responses = append(responses, app.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Application Stats
// @Description Get application counts per status
// @Tags Admin
// @Produce json
// @Success 200 {object} repository.ApplicationStats
// @Security BearerAuth
// @Router /admin/applications/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.applicationService.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Get Application
// @Description Get an application with documents and audit trail
// @Tags Admin
// @Produce json
// @Param application_id path int true "Application ID"
// @Success 200 {object} models.ApplicationResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/applications/{application_id} [get]
func (h *AdminHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	app, err := h.applicationService.FindByIDWithDetails(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse()})
}

// @Summary Approve Application
// @Description Approve a pending vendor application
// @Tags Admin
// @Produce json
// @Param application_id path int true "Application ID"
// @Success 200 {object} models.ApplicationResponse
// @Failure 404,409,422 {object} map[string]string
// @Security BearerAuth
// @Router /admin/applications/{application_id}/approve [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	adminID := middleware.GetUserID(c)

	app, err := h.applicationService.Approve(c.Request.Context(), uint(id), adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		if errors.Is(err, services.ErrReviewConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Application was already reviewed by another admin"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse(), "message": "Application approved"})
}

type RejectApplicationRequest struct {
	Reason string `json:"reason"`
}

// @Summary Reject Application
// @Description Reject a pending vendor application with a mandatory reason
// @Tags Admin
// @Accept json
// @Produce json
// @Param application_id path int true "Application ID"
// @Param request body RejectApplicationRequest true "Rejection Reason"
// @Success 200 {object} models.ApplicationResponse
// @Failure 404,409,422 {object} map[string]string
// @Security BearerAuth
// @Router /admin/applications/{application_id}/reject [post]
func (h *AdminHandler) Reject(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	adminID := middleware.GetUserID(c)

	// Accepts both {"reason": ...} and {"application": {"reason": ...}}
	var req RejectApplicationRequest
	BindNestedOrFlat(c, "application", &req)

	app, err := h.applicationService.Reject(c.Request.Context(), uint(id), adminID, req.Reason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		if errors.Is(err, services.ErrEmptyRejectionReason) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "A rejection reason is required"})
			return
		}
		if errors.Is(err, services.ErrReviewConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Application was already reviewed by another admin"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse(), "message": "Application rejected"})
}

// @Summary Get Application Audit Trail
// @Description Get the review history for one application, newest first
// @Tags Admin
// @Produce json
// @Param application_id path int true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/applications/{application_id}/audits [get]
func (h *AdminHandler) Audits(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)

	logs, err := h.auditService.ListByApplication(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, entry := range logs {
		responses = append(responses, entry.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"audits": responses})
}

// @Summary Export Applications
// @Description Download the application register as CSV or XLSX
// @Tags Admin
// @Produce text/csv
// @Param format query string false "Export format (csv or xlsx)" default(csv)
// @Param status query string false "Filter by status"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/applications/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	query := applicationQueryFromContext(c)
	// Exports cover the full register, not one page
	query.PerPage = 10000

	format := c.DefaultQuery("format", "csv")

	var (
		data        []byte
		filename    string
		contentType string
		err         error
	)

	switch format {
	case "csv":
		data, filename, err = h.exportService.ExportCSV(c.Request.Context(), query)
		contentType = "text/csv"
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(c.Request.Context(), query)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format, use csv or xlsx"})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}

// @Summary Application Dossier PDF
// @Description Download a PDF dossier with business details, documents and audit trail
// @Tags Admin
// @Produce application/pdf
// @Param application_id path int true "Application ID"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/applications/{application_id}/dossier_pdf [get]
func (h *AdminHandler) DossierPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)

	data, filename, err := h.exportService.ExportDossierPDF(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary Approval Letter PDF
// @Description Download the formal approval letter for an approved application
// @Tags Admin
// @Produce application/pdf
// @Param application_id path int true "Application ID"
// @Success 200 {file} file
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /admin/applications/{application_id}/approval_letter_pdf [get]
func (h *AdminHandler) ApprovalLetterPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)

	buf, err := h.reportService.GenerateApprovalLetterPDF(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrInvalidState) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Approval letter is only available for approved applications"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=approval_letter_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Get a paginated list of review audit logs across all applications
// @Tags Admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(50)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	offset := (page - 1) * perPage

	logs, total, err := h.auditService.List(c.Request.Context(), perPage, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, entry := range logs {
		responses = append(responses, entry.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"audits": responses, "pagination": gin.H{"total": total, "page": page, "per_page": perPage}})
}
