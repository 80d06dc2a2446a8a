package services

import (
	"context"

	"github.com/vendorly/kyc-api/internal/models"
	"gorm.io/gorm"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// List retrieves audit entries across all applications, newest first.
// Entries are only ever written inside the review transaction by the
// repository; this service is read-only.
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	if err := s.db.WithContext(ctx).Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := s.db.WithContext(ctx).
		Preload("Admin").
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&logs)
	return logs, total, result.Error
}

// ListByApplication retrieves the audit trail for one application, newest first
func (s *AuditService) ListByApplication(ctx context.Context, vendorID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.WithContext(ctx).
		Preload("Admin").
		Where("vendor_id = ?", vendorID).
		Order("created_at desc").
		Find(&logs).Error
	return logs, err
}
