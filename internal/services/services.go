package services

import (
	"github.com/vendorly/kyc-api/internal/config"
	"github.com/vendorly/kyc-api/internal/jobs"
	"github.com/vendorly/kyc-api/internal/repository"
	"github.com/vendorly/kyc-api/internal/storage"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	Application  *ApplicationService
	Notification *NotificationService
	Audit        *AuditService
	Email        *EmailService
	Export       *ExportService
	Report       *ReportService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, storage *storage.LocalStorage, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, cfg),
		Application:  NewApplicationService(repos.Application, repos.Document, repos.User, notificationSvc, emailSvc, storage, worker),
		Notification: notificationSvc,
		Audit:        auditSvc,
		Email:        emailSvc,
		Export:       NewExportService(repos.Application),
		Report:       NewReportService(repos.Application, repos.User),
		Job:          NewJobService(worker),
	}
}
