package models

import (
	"time"
)

// Document represents an identity document attached to a vendor application.
// Rows are immutable once created; there is no update or delete path.
type Document struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	VendorID     uint      `gorm:"not null;index" json:"vendor_id"`
	DocumentType string    `gorm:"not null" json:"document_type"`
	DocumentURL  string    `gorm:"not null" json:"document_url"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedAt   time.Time `json:"uploaded_at"`

	// Associations
	Application VendorApplication `gorm:"foreignKey:VendorID" json:"-"`
}

// TableName specifies the table name for Document
func (Document) TableName() string {
	return "documents"
}

// Document type constants
const (
	DocumentTypeGST          = "gst"
	DocumentTypePAN          = "pan"
	DocumentTypeRegistration = "registration"
	DocumentTypeOther        = "other"
)

// DocumentTypes lists the accepted document types in upload order
func DocumentTypes() []string {
	return []string{
		DocumentTypeGST,
		DocumentTypePAN,
		DocumentTypeRegistration,
		DocumentTypeOther,
	}
}

// IsValidDocumentType checks if the document type is accepted
func IsValidDocumentType(docType string) bool {
	for _, t := range DocumentTypes() {
		if t == docType {
			return true
		}
	}
	return false
}

// DocumentResponse is the JSON response format for documents
type DocumentResponse struct {
	ID           uint      `json:"id"`
	VendorID     uint      `json:"vendor_id"`
	DocumentType string    `json:"document_type"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// ToResponse converts Document to DocumentResponse
func (d *Document) ToResponse() DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		VendorID:     d.VendorID,
		DocumentType: d.DocumentType,
		FileName:     d.FileName,
		ContentType:  d.ContentType,
		SizeBytes:    d.SizeBytes,
		UploadedAt:   d.UploadedAt,
	}
}
