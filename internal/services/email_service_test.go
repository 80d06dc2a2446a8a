package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vendorly/kyc-api/internal/config"
	"github.com/vendorly/kyc-api/internal/models"
	"github.com/vendorly/kyc-api/pkg/logger"
)

func TestEmailService_RenderTemplates(t *testing.T) {
	service := NewEmailService(&config.Config{AppURL: "https://vendors.example.com"})

	reason := "PAN number does not match the uploaded card"

	tests := []struct {
		name     string
		template string
		data     interface{}
		contains []string
	}{
		{
			name:     "submitted",
			template: "application_submitted.html",
			data: struct {
				Name          string
				BusinessName  string
				SubmittedAt   string
				DocumentCount int
				AppURL        string
			}{"Vendor One", "Acme Traders", "15/03/2026 10:00", 3, "https://vendors.example.com"},
			contains: []string{"Acme Traders", "Vendor One", "Pending review", "https://vendors.example.com"},
		},
		{
			name:     "approved",
			template: "application_approved.html",
			data: struct {
				Name         string
				BusinessName string
				ApprovedAt   string
				AppURL       string
			}{"Vendor One", "Acme Traders", "16/03/2026 09:30", "https://vendors.example.com"},
			contains: []string{"approved", "Acme Traders", "16/03/2026 09:30"},
		},
		{
			name:     "rejected",
			template: "application_rejected.html",
			data: struct {
				Name         string
				BusinessName string
				Reason       string
				AppURL       string
			}{"Vendor One", "Acme Traders", reason, "https://vendors.example.com"},
			contains: []string{"Rejected", reason},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := service.renderTemplate(tt.template, tt.data)
			assert.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestEmailService_SkipsWithoutAPIKey(t *testing.T) {
	logger.Setup("test")

	service := NewEmailService(&config.Config{})
	now := time.Now()
	user := &models.User{Email: "vendor@example.com", FullName: "Vendor One"}
	app := &models.VendorApplication{BusinessName: "Acme Traders", CreatedAt: now, ReviewedAt: &now}

	assert.NoError(t, service.SendApplicationSubmitted(t.Context(), user, app))
	assert.NoError(t, service.SendApplicationApproved(t.Context(), user, app))
}
