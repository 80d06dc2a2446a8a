package services

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vendorly/kyc-api/internal/models"
	"github.com/vendorly/kyc-api/internal/storage"
)

type fakeUpload struct {
	*bytes.Reader
	closed bool
}

func newFakeUpload(content string) *fakeUpload {
	return &fakeUpload{Reader: bytes.NewReader([]byte(content))}
}

func (f *fakeUpload) Close() error {
	f.closed = true
	return nil
}

func uploadHeader(filename, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: filename,
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestDocumentStager_Stage(t *testing.T) {
	stager := NewDocumentStager()
	defer stager.Close()

	file := newFakeUpload("%PDF-1.4")
	err := stager.Stage(models.DocumentTypeGST, file, uploadHeader("gst.pdf", "application/pdf", 1024))
	assert.NoError(t, err)
	assert.Equal(t, 1, stager.Len())

	staged := stager.Get(models.DocumentTypeGST)
	assert.NotNil(t, staged)
	assert.Equal(t, "gst.pdf", staged.FileName)
	assert.Equal(t, "application/pdf", staged.ContentType)
	assert.Equal(t, int64(1024), staged.Size)
}

func TestDocumentStager_Stage_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		docType     string
		contentType string
		size        int64
		wantErr     error
	}{
		{"unknown document type", "passport", "application/pdf", 1024, ErrInvalidDocumentType},
		{"oversize file", models.DocumentTypePAN, "application/pdf", storage.MaxFileSize() + 1, ErrFileTooLarge},
		{"unsupported content type", models.DocumentTypePAN, "application/zip", 1024, ErrUnsupportedFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stager := NewDocumentStager()
			defer stager.Close()

			err := stager.Stage(tt.docType, newFakeUpload("data"), uploadHeader("doc", tt.contentType, tt.size))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, stager.Len())
		})
	}
}

func TestDocumentStager_Stage_ReplacesPrevious(t *testing.T) {
	stager := NewDocumentStager()
	defer stager.Close()

	first := newFakeUpload("first")
	assert.NoError(t, stager.Stage(models.DocumentTypePAN, first, uploadHeader("pan_v1.pdf", "application/pdf", 512)))

	second := newFakeUpload("second")
	assert.NoError(t, stager.Stage(models.DocumentTypePAN, second, uploadHeader("pan_v2.pdf", "application/pdf", 512)))

	assert.Equal(t, 1, stager.Len())
	assert.Equal(t, "pan_v2.pdf", stager.Get(models.DocumentTypePAN).FileName)
	assert.True(t, first.closed)
	assert.False(t, second.closed)
}

func TestDocumentStager_Stage_InvalidKeepsPrevious(t *testing.T) {
	stager := NewDocumentStager()
	defer stager.Close()

	assert.NoError(t, stager.Stage(models.DocumentTypePAN, newFakeUpload("good"), uploadHeader("pan.pdf", "application/pdf", 512)))

	err := stager.Stage(models.DocumentTypePAN, newFakeUpload("bad"), uploadHeader("pan.zip", "application/zip", 512))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	assert.Equal(t, "pan.pdf", stager.Get(models.DocumentTypePAN).FileName)
}

func TestDocumentStager_Remove(t *testing.T) {
	stager := NewDocumentStager()
	defer stager.Close()

	file := newFakeUpload("data")
	assert.NoError(t, stager.Stage(models.DocumentTypeGST, file, uploadHeader("gst.pdf", "application/pdf", 512)))

	stager.Remove(models.DocumentTypeGST)
	assert.Equal(t, 0, stager.Len())
	assert.True(t, file.closed)
}

func TestDocumentStager_Each_CanonicalOrder(t *testing.T) {
	stager := NewDocumentStager()
	defer stager.Close()

	// Stage out of order; iteration follows the canonical type order.
	assert.NoError(t, stager.Stage(models.DocumentTypeOther, newFakeUpload("o"), uploadHeader("other.pdf", "application/pdf", 16)))
	assert.NoError(t, stager.Stage(models.DocumentTypePAN, newFakeUpload("p"), uploadHeader("pan.pdf", "application/pdf", 16)))
	assert.NoError(t, stager.Stage(models.DocumentTypeGST, newFakeUpload("g"), uploadHeader("gst.pdf", "application/pdf", 16)))

	var order []string
	err := stager.Each(func(doc *StagedDocument) error {
		order = append(order, doc.Type)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{models.DocumentTypeGST, models.DocumentTypePAN, models.DocumentTypeOther}, order)
}

func TestDocumentStager_Close_ReleasesHandles(t *testing.T) {
	stager := NewDocumentStager()

	first := newFakeUpload("a")
	second := newFakeUpload("b")
	assert.NoError(t, stager.Stage(models.DocumentTypeGST, first, uploadHeader("gst.pdf", "application/pdf", 16)))
	assert.NoError(t, stager.Stage(models.DocumentTypePAN, second, uploadHeader("pan.pdf", "application/pdf", 16)))

	stager.Close()
	assert.Equal(t, 0, stager.Len())
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}
