package services

import (
	"mime/multipart"

	"github.com/vendorly/kyc-api/internal/models"
	"github.com/vendorly/kyc-api/internal/storage"
)

// StagedDocument is a validated candidate file held in memory until submission.
type StagedDocument struct {
	Type        string
	FileName    string
	ContentType string
	Size        int64
	File        multipart.File
}

// DocumentStager collects candidate documents for one submission. Candidates
// are validated on Stage and have no persistent effect until the submission
// uploads them. At most one document is held per type; staging the same type
// again replaces the previous candidate and closes its file handle.
type DocumentStager struct {
	docs map[string]*StagedDocument
}

// NewDocumentStager creates an empty stager
func NewDocumentStager() *DocumentStager {
	return &DocumentStager{docs: make(map[string]*StagedDocument)}
}

// Stage validates and holds a candidate file for the given document type.
// Rejected candidates are never staged and the previous candidate, if any,
// is kept.
func (d *DocumentStager) Stage(docType string, file multipart.File, header *multipart.FileHeader) error {
	if !models.IsValidDocumentType(docType) {
		return ErrInvalidDocumentType
	}
	if header.Size > storage.MaxFileSize() {
		return ErrFileTooLarge
	}
	if !storage.IsValidContentType(header.Header.Get("Content-Type")) {
		return ErrUnsupportedFileType
	}

	if prev, ok := d.docs[docType]; ok {
		prev.File.Close()
	}

	d.docs[docType] = &StagedDocument{
		Type:        docType,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		File:        file,
	}
	return nil
}

// Remove drops the staged document for a type and closes its file handle
func (d *DocumentStager) Remove(docType string) {
	if doc, ok := d.docs[docType]; ok {
		doc.File.Close()
		delete(d.docs, docType)
	}
}

// Get returns the staged document for a type, or nil
func (d *DocumentStager) Get(docType string) *StagedDocument {
	return d.docs[docType]
}

// Len returns the number of staged documents
func (d *DocumentStager) Len() int {
	return len(d.docs)
}

// Each iterates the staged documents in canonical type order
func (d *DocumentStager) Each(fn func(doc *StagedDocument) error) error {
	for _, docType := range models.DocumentTypes() {
		doc, ok := d.docs[docType]
		if !ok {
			continue
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}

// Close releases all staged file handles
func (d *DocumentStager) Close() {
	for docType, doc := range d.docs {
		doc.File.Close()
		delete(d.docs, docType)
	}
}
