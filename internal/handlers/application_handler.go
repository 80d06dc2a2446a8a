package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vendorly/kyc-api/internal/middleware"
	"github.com/vendorly/kyc-api/internal/models"
	"github.com/vendorly/kyc-api/internal/services"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
	auditService       *services.AuditService
}

func NewApplicationHandler(applicationService *services.ApplicationService, auditService *services.AuditService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		auditService:       auditService,
	}
}

// @Summary Submit Application
// @Description Submit the caller's vendor application with business details and identity documents
// @Tags Applications
// @Accept multipart/form-data
// @Produce json
// @Param application[business_name] formData string true "Business Name"
// @Param application[business_type] formData string true "Business Type"
// @Param application[contact_number] formData string true "Contact Number"
// @Param application[email] formData string true "Business Email"
// @Param application[address] formData string true "Address"
// @Param application[city] formData string true "City"
// @Param application[state] formData string true "State"
// @Param application[pincode] formData string true "Pincode"
// @Param application[gst_number] formData string true "GST Number"
// @Param application[pan_number] formData string true "PAN Number"
// @Param documents[gst] formData file false "GST Certificate"
// @Param documents[pan] formData file false "PAN Card"
// @Param documents[registration] formData file false "Registration Certificate"
// @Param documents[other] formData file false "Other Document"
// @Success 201 {object} map[string]interface{}
// @Failure 400,409,422 {object} map[string]string
// @Security BearerAuth
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing form data: " + err.Error()})
		return
	}

	field := func(name string) string {
		return strings.TrimSpace(c.Request.FormValue("application[" + name + "]"))
	}

	app := &models.VendorApplication{
		UserID:        userID,
		BusinessName:  field("business_name"),
		BusinessType:  strings.ToLower(field("business_type")),
		ContactNumber: field("contact_number"),
		Email:         field("email"),
		Address:       field("address"),
		City:          field("city"),
		State:         field("state"),
		Pincode:       field("pincode"),
		GSTNumber:     strings.ToUpper(field("gst_number")),
		PANNumber:     strings.ToUpper(field("pan_number")),
	}

	required := map[string]string{
		"business_name":  app.BusinessName,
		"business_type":  app.BusinessType,
		"contact_number": app.ContactNumber,
		"email":          app.Email,
		"address":        app.Address,
		"city":           app.City,
		"state":          app.State,
		"pincode":        app.Pincode,
		"gst_number":     app.GSTNumber,
		"pan_number":     app.PANNumber,
	}
	for name, value := range required {
		if value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Field %s is required", name)})
			return
		}
	}

	if !models.ValidBusinessTypes()[app.BusinessType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business type"})
		return
	}
	if _, err := mail.ParseAddress(app.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Business email is not valid"})
		return
	}

	// Stage documents: one file per type, validated before anything persists
	stager := services.NewDocumentStager()
	defer stager.Close()

	form, _ := c.MultipartForm()
	for _, docType := range models.DocumentTypes() {
		headers := form.File["documents["+docType+"]"]
		if len(headers) == 0 {
			continue
		}
		header := headers[len(headers)-1]
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Could not read %s document", docType)})
			return
		}
		if err := stager.Stage(docType, file, header); err != nil {
			file.Close()
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("Document %s rejected: %s", docType, err.Error())})
			return
		}
	}

	if err := h.applicationService.Submit(c.Request.Context(), app, stager); err != nil {
		if errors.Is(err, services.ErrDuplicateApplication) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already submitted an application"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"application": app.ToResponse(),
		"message":     "Application submitted successfully",
	})
}

// @Summary Get My Application
// @Description Get the caller's own application with documents and review outcome
// @Tags Applications
// @Produce json
// @Success 200 {object} models.ApplicationResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /applications/me [get]
func (h *ApplicationHandler) ShowMine(c *gin.Context) {
	userID := middleware.GetUserID(c)

	app, err := h.applicationService.FindByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "You have not submitted an application yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse()})
}

// @Summary Get My Audit Trail
// @Description Get the review history of the caller's own application, newest first
// @Tags Applications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /applications/me/audits [get]
func (h *ApplicationHandler) MyAudits(c *gin.Context) {
	userID := middleware.GetUserID(c)

	app, err := h.applicationService.FindByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "You have not submitted an application yet"})
		return
	}

	logs, err := h.auditService.ListByApplication(c.Request.Context(), app.ID)
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

// @Summary Download Document
// @Description Download a stored identity document. Vendors can only fetch their own; admins any.
// @Tags Applications
// @Produce application/octet-stream
// @Param document_id path int true "Document ID"
// @Success 200 {file} file
// @Failure 403,404 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id}/download [get]
func (h *ApplicationHandler) DownloadDocument(c *gin.Context) {
	documentID, _ := strconv.ParseUint(c.Param("document_id"), 10, 32)
	userID := middleware.GetUserID(c)
	isAdmin := middleware.IsAdmin(c)

	doc, file, err := h.applicationService.DownloadDocument(c.Request.Context(), uint(documentID), userID, isAdmin)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this document"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	defer file.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.FileName),
	}
	c.DataFromReader(http.StatusOK, doc.SizeBytes, doc.ContentType, file, extraHeaders)
}
