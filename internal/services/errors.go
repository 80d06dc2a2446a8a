package services

import "errors"

// Common service errors
var (
	ErrNotFound             = errors.New("record not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUnauthorized         = errors.New("not authorized")
	ErrInvalidState         = errors.New("invalid state transition")
	ErrDuplicateApplication = errors.New("an application has already been submitted for this account")
	ErrEmptyRejectionReason = errors.New("a rejection reason is required")
	ErrReviewConflict       = errors.New("application was already reviewed by another admin")
	ErrFileTooLarge         = errors.New("file exceeds the 5MB size limit")
	ErrUnsupportedFileType  = errors.New("file type must be PDF, JPEG or PNG")
	ErrInvalidDocumentType  = errors.New("unknown document type")
)
