package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vendorly/kyc-api/internal/jobs"
	"github.com/vendorly/kyc-api/internal/models"
	"github.com/vendorly/kyc-api/internal/repository"
	"github.com/vendorly/kyc-api/internal/statemachine"
	"github.com/vendorly/kyc-api/internal/storage"
)

type ApplicationService struct {
	repo            repository.ApplicationRepository
	docRepo         repository.DocumentRepository
	userRepo        repository.UserRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	storage         *storage.LocalStorage
	worker          *jobs.Worker
}

func NewApplicationService(
	repo repository.ApplicationRepository,
	docRepo repository.DocumentRepository,
	userRepo repository.UserRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	store *storage.LocalStorage,
	worker *jobs.Worker,
) *ApplicationService {
	return &ApplicationService{
		repo:            repo,
		docRepo:         docRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		storage:         store,
		worker:          worker,
	}
}

// FindByID gets an application by ID
func (s *ApplicationService) FindByID(ctx context.Context, id uint) (*models.VendorApplication, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByIDWithDetails gets an application with documents, audit trail and users preloaded
func (s *ApplicationService) FindByIDWithDetails(ctx context.Context, id uint) (*models.VendorApplication, error) {
	return s.repo.FindByIDWithDetails(ctx, id)
}

// FindByUser gets the caller's own application
func (s *ApplicationService) FindByUser(ctx context.Context, userID uint) (*models.VendorApplication, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *ApplicationService) List(ctx context.Context, query *repository.ApplicationQuery) ([]models.VendorApplication, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ApplicationService) GetStats(ctx context.Context) (*repository.ApplicationStats, error) {
	return s.repo.GetStats(ctx)
}

// Submit creates the caller's pending application, then uploads the staged
// documents. One application per account: a duplicate surfaces as
// ErrDuplicateApplication before any upload happens. Uploads stop at the
// first failure; documents persisted before the failure remain attached.
func (s *ApplicationService) Submit(ctx context.Context, app *models.VendorApplication, stager *DocumentStager) error {
	app.Status = models.ApplicationStatusPending

	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return ErrDuplicateApplication
		}
		return err
	}

	if err := stager.Each(func(doc *StagedDocument) error {
		key := fmt.Sprintf("%d/%d/%s_%d%s",
			app.UserID, app.ID, doc.Type, time.Now().UnixMilli(), filepath.Ext(doc.FileName))

		if _, err := s.storage.Save(doc.File, key); err != nil {
			return fmt.Errorf("failed to upload %s document: %w", doc.Type, err)
		}

		record := &models.Document{
			VendorID:     app.ID,
			DocumentType: doc.Type,
			DocumentURL:  key,
			FileName:     doc.FileName,
			ContentType:  doc.ContentType,
			SizeBytes:    doc.Size,
			UploadedAt:   time.Now(),
		}
		if err := s.docRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to record %s document: %w", doc.Type, err)
		}
		return nil
	}); err != nil {
		return err
	}

	// Notify admins and confirm to the vendor asynchronously
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"New vendor application",
			fmt.Sprintf("%s submitted a KYC application for review", app.BusinessName),
			models.NotificationTypeApplicationSubmitted)
	})
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		user, err := s.userRepo.FindByID(ctx, app.UserID)
		if err != nil {
			return err
		}
		return s.emailSvc.SendApplicationSubmitted(ctx, user, app)
	})

	return nil
}

// Approve approves a pending application. The status write and the audit
// entry commit in one transaction; a concurrent decision by another admin
// surfaces as ErrReviewConflict.
func (s *ApplicationService) Approve(ctx context.Context, id uint, adminID uint) (*models.VendorApplication, error) {
	app, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	previousStatus := app.Status

	// Use FSM to validate and transition state
	machine := statemachine.NewApplicationFSM(app)
	if err := machine.Approve(ctx); err != nil {
		return nil, fmt.Errorf("cannot approve application: %w", err)
	}

	now := time.Now()
	app.ReviewedBy = &adminID
	app.ReviewedAt = &now

	audit := &models.AuditLog{
		VendorID:       app.ID,
		AdminID:        adminID,
		Action:         models.AuditActionApproved,
		PreviousStatus: previousStatus,
		NewStatus:      app.Status,
	}

	if err := s.repo.ReviewTransition(ctx, app, audit); err != nil {
		if errors.Is(err, repository.ErrStaleReview) {
			return nil, ErrReviewConflict
		}
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, app.UserID,
			"Application approved",
			"Your vendor application has been approved",
			models.NotificationTypeApplicationApproved)
	})
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.emailSvc.SendApplicationApproved(ctx, &app.User, app)
	})

	return app, nil
}

// Reject rejects a pending application. The reason is required and validated
// before any state changes; approval semantics otherwise match Approve.
func (s *ApplicationService) Reject(ctx context.Context, id uint, adminID uint, reason string) (*models.VendorApplication, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyRejectionReason
	}

	app, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	previousStatus := app.Status

	machine := statemachine.NewApplicationFSM(app)
	if err := machine.Reject(ctx); err != nil {
		return nil, fmt.Errorf("cannot reject application: %w", err)
	}

	now := time.Now()
	app.RejectionReason = &reason
	app.ReviewedBy = &adminID
	app.ReviewedAt = &now

	audit := &models.AuditLog{
		VendorID:       app.ID,
		AdminID:        adminID,
		Action:         models.AuditActionRejected,
		PreviousStatus: previousStatus,
		NewStatus:      app.Status,
		Comments:       reason,
	}

	if err := s.repo.ReviewTransition(ctx, app, audit); err != nil {
		if errors.Is(err, repository.ErrStaleReview) {
			return nil, ErrReviewConflict
		}
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, app.UserID,
			"Application rejected",
			"Your vendor application has been rejected: "+reason,
			models.NotificationTypeApplicationRejected)
	})
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.emailSvc.SendApplicationRejected(ctx, &app.User, app)
	})

	return app, nil
}

// DownloadDocument opens a stored document for the requester. Admins can
// fetch any document; vendors only their own.
func (s *ApplicationService) DownloadDocument(ctx context.Context, documentID uint, requesterID uint, isAdmin bool) (*models.Document, *os.File, error) {
	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	if !isAdmin && doc.Application.UserID != requesterID {
		return nil, nil, ErrUnauthorized
	}

	file, err := s.storage.Download(doc.DocumentURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stored document: %w", err)
	}
	return doc, file, nil
}

// NotifyPendingReviews sends admins a digest notification when applications
// are waiting for review. Run on a schedule.
func (s *ApplicationService) NotifyPendingReviews(ctx context.Context) error {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return err
	}
	if stats.Pending == 0 {
		return nil
	}
	return s.notificationSvc.NotifyAdmins(ctx,
		"Applications awaiting review",
		fmt.Sprintf("%d vendor application(s) are pending review", stats.Pending),
		models.NotificationTypePendingReviewDigest)
}
