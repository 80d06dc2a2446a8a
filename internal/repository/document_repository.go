package repository

import (
	"context"

	"github.com/vendorly/kyc-api/internal/models"
	"gorm.io/gorm"
)

// DocumentRepository defines the interface for document data access.
// Documents are immutable: there is no update or delete.
type DocumentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Document, error)
	FindByApplication(ctx context.Context, vendorID uint) ([]models.Document, error)
	Create(ctx context.Context, doc *models.Document) error
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) FindByID(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).
		Preload("Application").
		First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindByApplication(ctx context.Context, vendorID uint) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("uploaded_at ASC").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}
