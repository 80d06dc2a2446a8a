package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/vendorly/kyc-api/internal/models"
	"github.com/vendorly/kyc-api/internal/repository"
	"github.com/vendorly/kyc-api/internal/services"
	"gorm.io/gorm"
)

type missingAppRepo struct {
	repository.ApplicationRepository
}

func (m *missingAppRepo) FindByIDWithDetails(ctx context.Context, id uint) (*models.VendorApplication, error) {
	return nil, gorm.ErrRecordNotFound
}

func newTestAdminHandler() *AdminHandler {
	appService := services.NewApplicationService(&missingAppRepo{}, nil, nil, nil, nil, nil, nil)
	return NewAdminHandler(appService, nil, nil, nil)
}

func testContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	return c, w
}

func TestApplicationQueryFromContext_ClampsPagination(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "/admin/applications", 1, 20},
		{"zero per_page", "/admin/applications?per_page=0", 1, 20},
		{"negative page", "/admin/applications?page=-3&per_page=-1", 1, 20},
		{"non-numeric", "/admin/applications?page=abc&per_page=xyz", 1, 20},
		{"valid values kept", "/admin/applications?page=3&per_page=50", 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(t, http.MethodGet, tt.target, "")
			query := applicationQueryFromContext(c)
			assert.Equal(t, tt.wantPage, query.Page)
			assert.Equal(t, tt.wantPerPage, query.PerPage)
		})
	}
}

func TestAdminHandler_Approve_NotFound(t *testing.T) {
	h := newTestAdminHandler()

	c, w := testContext(t, http.MethodPost, "/admin/applications/12/approve", "")
	c.Params = gin.Params{{Key: "application_id", Value: "12"}}

	h.Approve(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Application not found")
}

func TestAdminHandler_Reject_NotFound(t *testing.T) {
	h := newTestAdminHandler()

	c, w := testContext(t, http.MethodPost, "/admin/applications/12/reject",
		`{"reason":"GST certificate is illegible"}`)
	c.Params = gin.Params{{Key: "application_id", Value: "12"}}

	h.Reject(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Application not found")
}
