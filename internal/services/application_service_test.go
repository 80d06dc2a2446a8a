package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vendorly/kyc-api/internal/config"
	"github.com/vendorly/kyc-api/internal/jobs"
	"github.com/vendorly/kyc-api/internal/models"
	"github.com/vendorly/kyc-api/internal/repository"
	"github.com/vendorly/kyc-api/internal/storage"
)

type mockApplicationRepo struct {
	repository.ApplicationRepository
	mockFindByIDWithDetails func(ctx context.Context, id uint) (*models.VendorApplication, error)
	mockCreate              func(ctx context.Context, app *models.VendorApplication) error
	mockGetStats            func(ctx context.Context) (*repository.ApplicationStats, error)
	mockReviewTransition    func(ctx context.Context, app *models.VendorApplication, audit *models.AuditLog) error
}

func (m *mockApplicationRepo) FindByIDWithDetails(ctx context.Context, id uint) (*models.VendorApplication, error) {
	return m.mockFindByIDWithDetails(ctx, id)
}

func (m *mockApplicationRepo) Create(ctx context.Context, app *models.VendorApplication) error {
	return m.mockCreate(ctx, app)
}

func (m *mockApplicationRepo) GetStats(ctx context.Context) (*repository.ApplicationStats, error) {
	return m.mockGetStats(ctx)
}

func (m *mockApplicationRepo) ReviewTransition(ctx context.Context, app *models.VendorApplication, audit *models.AuditLog) error {
	return m.mockReviewTransition(ctx, app, audit)
}

type mockNotificationRepo struct {
	repository.NotificationRepository
	mockCreate func(ctx context.Context, notification *models.Notification) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, notification)
	}
	return nil
}

type reviewTestUserRepo struct {
	repository.UserRepository
}

func (m *reviewTestUserRepo) FindAdmins(ctx context.Context) ([]models.User, error) {
	return nil, nil
}

func (m *reviewTestUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return &models.User{ID: id, Role: models.RoleVendor, Status: models.StatusActive}, nil
}

func newTestApplicationService(t *testing.T, appRepo *mockApplicationRepo) *ApplicationService {
	t.Helper()
	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	userRepo := &reviewTestUserRepo{}
	notificationSvc := NewNotificationService(&mockNotificationRepo{}, userRepo)
	emailSvc := NewEmailService(&config.Config{})

	return NewApplicationService(appRepo, nil, userRepo, notificationSvc, emailSvc, nil, worker)
}

func pendingApplication(id uint) *models.VendorApplication {
	return &models.VendorApplication{
		ID:           id,
		UserID:       7,
		BusinessName: "Acme Traders",
		BusinessType: models.BusinessTypeProprietorship,
		Status:       models.ApplicationStatusPending,
		User:         models.User{ID: 7, FullName: "Vendor One", Email: "vendor@example.com"},
	}
}

func TestApplicationService_Approve(t *testing.T) {
	appRepo := &mockApplicationRepo{}
	service := newTestApplicationService(t, appRepo)

	appRepo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.VendorApplication, error) {
		return pendingApplication(id), nil
	}

	var capturedAudit *models.AuditLog
	appRepo.mockReviewTransition = func(ctx context.Context, app *models.VendorApplication, audit *models.AuditLog) error {
		capturedAudit = audit
		return nil
	}

	app, err := service.Approve(context.Background(), 1, 99)
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, app.Status)
	assert.NotNil(t, app.ReviewedAt)
	assert.Equal(t, uint(99), *app.ReviewedBy)

	assert.NotNil(t, capturedAudit)
	assert.Equal(t, models.AuditActionApproved, capturedAudit.Action)
	assert.Equal(t, models.ApplicationStatusPending, capturedAudit.PreviousStatus)
	assert.Equal(t, models.ApplicationStatusApproved, capturedAudit.NewStatus)
	assert.Equal(t, uint(99), capturedAudit.AdminID)
}

func TestApplicationService_Approve_NotPending(t *testing.T) {
	appRepo := &mockApplicationRepo{}
	service := newTestApplicationService(t, appRepo)

	appRepo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.VendorApplication, error) {
		app := pendingApplication(id)
		app.Status = models.ApplicationStatusApproved
		return app, nil
	}

	app, err := service.Approve(context.Background(), 1, 99)
	assert.Nil(t, app)
	assert.Error(t, err)
}

func TestApplicationService_Approve_ConcurrentReview(t *testing.T) {
	appRepo := &mockApplicationRepo{}
	service := newTestApplicationService(t, appRepo)

	appRepo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.VendorApplication, error) {
		return pendingApplication(id), nil
	}
	appRepo.mockReviewTransition = func(ctx context.Context, app *models.VendorApplication, audit *models.AuditLog) error {
		return repository.ErrStaleReview
	}

	app, err := service.Approve(context.Background(), 1, 99)
	assert.Nil(t, app)
	assert.ErrorIs(t, err, ErrReviewConflict)
}

func TestApplicationService_Reject(t *testing.T) {
	appRepo := &mockApplicationRepo{}
	service := newTestApplicationService(t, appRepo)

	appRepo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.VendorApplication, error) {
		return pendingApplication(id), nil
	}

	var capturedAudit *models.AuditLog
	appRepo.mockReviewTransition = func(ctx context.Context, app *models.VendorApplication, audit *models.AuditLog) error {
		capturedAudit = audit
		return nil
	}

	app, err := service.Reject(context.Background(), 1, 99, "GST certificate is illegible")
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, app.Status)
	assert.Equal(t, "GST certificate is illegible", *app.RejectionReason)

	assert.NotNil(t, capturedAudit)
	assert.Equal(t, models.AuditActionRejected, capturedAudit.Action)
	assert.Equal(t, "GST certificate is illegible", capturedAudit.Comments)
}

func TestApplicationService_Reject_EmptyReason(t *testing.T) {
	appRepo := &mockApplicationRepo{}
	service := newTestApplicationService(t, appRepo)

	// FindByIDWithDetails and ReviewTransition are nil: any call would panic,
	// proving the reason is validated before any state is touched.
	tests := []struct {
		name   string
		reason string
	}{
		{"empty", ""},
		{"whitespace only", "   \t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := service.Reject(context.Background(), 1, 99, tt.reason)
			assert.Nil(t, app)
			assert.ErrorIs(t, err, ErrEmptyRejectionReason)
		})
	}
}

func TestApplicationService_Submit_Duplicate(t *testing.T) {
	appRepo := &mockApplicationRepo{}
	service := newTestApplicationService(t, appRepo)

	appRepo.mockCreate = func(ctx context.Context, app *models.VendorApplication) error {
		return repository.ErrDuplicateApplication
	}

	app := &models.VendorApplication{UserID: 7, BusinessName: "Acme Traders"}
	err := service.Submit(context.Background(), app, NewDocumentStager())
	assert.ErrorIs(t, err, ErrDuplicateApplication)
}

type mockDocumentRepo struct {
	repository.DocumentRepository
	mockCreate func(ctx context.Context, doc *models.Document) error
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	return m.mockCreate(ctx, doc)
}

// newUploadTestService wires a service over real local storage so Submit's
// upload path writes actual files.
func newUploadTestService(t *testing.T, appRepo *mockApplicationRepo, docRepo *mockDocumentRepo) (*ApplicationService, *storage.LocalStorage) {
	t.Helper()
	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	store, err := storage.NewLocalStorage(t.TempDir())
	assert.NoError(t, err)

	userRepo := &reviewTestUserRepo{}
	notificationSvc := NewNotificationService(&mockNotificationRepo{}, userRepo)
	emailSvc := NewEmailService(&config.Config{})

	return NewApplicationService(appRepo, docRepo, userRepo, notificationSvc, emailSvc, store, worker), store
}

func stageDocuments(t *testing.T, stager *DocumentStager, types ...string) {
	t.Helper()
	for _, docType := range types {
		err := stager.Stage(docType, newFakeUpload("%PDF-1.4 "+docType),
			uploadHeader(docType+".pdf", "application/pdf", 1024))
		assert.NoError(t, err)
	}
}

func TestApplicationService_Submit_UploadsDocuments(t *testing.T) {
	appRepo := &mockApplicationRepo{}
	appRepo.mockCreate = func(ctx context.Context, app *models.VendorApplication) error {
		app.ID = 42
		return nil
	}

	var created []*models.Document
	docRepo := &mockDocumentRepo{}
	docRepo.mockCreate = func(ctx context.Context, doc *models.Document) error {
		created = append(created, doc)
		return nil
	}

	service, store := newUploadTestService(t, appRepo, docRepo)

	stager := NewDocumentStager()
	defer stager.Close()
	stageDocuments(t, stager, models.DocumentTypeGST, models.DocumentTypePAN, models.DocumentTypeOther)

	app := &models.VendorApplication{UserID: 7, BusinessName: "Acme Traders"}
	err := service.Submit(context.Background(), app, stager)
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)

	assert.Len(t, created, 3)
	keyPattern := regexp.MustCompile(`^7/42/(gst|pan|other)_\d+\.pdf$`)
	for _, doc := range created {
		assert.Equal(t, uint(42), doc.VendorID)
		assert.Regexp(t, keyPattern, doc.DocumentURL)
		assert.True(t, store.Exists(doc.DocumentURL))
		assert.Equal(t, "application/pdf", doc.ContentType)
		assert.Equal(t, int64(1024), doc.SizeBytes)
	}

	// Uploads run in canonical type order
	assert.Equal(t, models.DocumentTypeGST, created[0].DocumentType)
	assert.Equal(t, models.DocumentTypePAN, created[1].DocumentType)
	assert.Equal(t, models.DocumentTypeOther, created[2].DocumentType)
}

func TestApplicationService_Submit_AbortsOnUploadFailure(t *testing.T) {
	appRepo := &mockApplicationRepo{}
	appRepo.mockCreate = func(ctx context.Context, app *models.VendorApplication) error {
		app.ID = 42
		return nil
	}

	// Second document record fails; the third must never be attempted and
	// the first stays persisted.
	var attempts int
	var created []*models.Document
	docRepo := &mockDocumentRepo{}
	docRepo.mockCreate = func(ctx context.Context, doc *models.Document) error {
		attempts++
		if attempts == 2 {
			return errors.New("insert failed")
		}
		created = append(created, doc)
		return nil
	}

	service, store := newUploadTestService(t, appRepo, docRepo)

	stager := NewDocumentStager()
	defer stager.Close()
	stageDocuments(t, stager, models.DocumentTypeGST, models.DocumentTypePAN, models.DocumentTypeOther)

	app := &models.VendorApplication{UserID: 7, BusinessName: "Acme Traders"}
	err := service.Submit(context.Background(), app, stager)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pan")

	assert.Equal(t, 2, attempts)
	assert.Len(t, created, 1)
	assert.Equal(t, models.DocumentTypeGST, created[0].DocumentType)
	assert.True(t, store.Exists(created[0].DocumentURL))
}

func TestApplicationService_NotifyPendingReviews_NoPending(t *testing.T) {
	appRepo := &mockApplicationRepo{}
	service := newTestApplicationService(t, appRepo)

	appRepo.mockGetStats = func(ctx context.Context) (*repository.ApplicationStats, error) {
		return &repository.ApplicationStats{Pending: 0, Total: 3}, nil
	}

	err := service.NotifyPendingReviews(context.Background())
	assert.NoError(t, err)
}
