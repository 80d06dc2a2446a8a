package models

import (
	"time"
)

// VendorApplication represents a vendor's KYC onboarding application
type VendorApplication struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;uniqueIndex:idx_vendor_applications_user_id" json:"user_id"`
	BusinessName    string     `gorm:"not null" json:"business_name"`
	BusinessType    string     `gorm:"not null" json:"business_type"`
	ContactNumber   string     `gorm:"not null" json:"contact_number"`
	Email           string     `gorm:"not null" json:"email"`
	Address         string     `gorm:"type:text" json:"address"`
	City            string     `json:"city"`
	State           string     `json:"state"`
	Pincode         string     `json:"pincode"`
	GSTNumber       string     `gorm:"column:gst_number" json:"gst_number"`
	PANNumber       string     `gorm:"column:pan_number" json:"pan_number"`
	Status          string     `gorm:"default:pending;index" json:"status"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason"`
	ReviewedBy      *uint      `json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	User      User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reviewer  *User      `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	Documents []Document `gorm:"foreignKey:VendorID" json:"documents,omitempty"`
	AuditLogs []AuditLog `gorm:"foreignKey:VendorID" json:"audit_logs,omitempty"`
}

// TableName specifies the table name for VendorApplication
func (VendorApplication) TableName() string {
	return "vendor_applications"
}

// Application status constants
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// Business type constants
const (
	BusinessTypeProprietorship = "proprietorship"
	BusinessTypePartnership    = "partnership"
	BusinessTypePrivateLimited = "private_limited"
	BusinessTypePublicLimited  = "public_limited"
	BusinessTypeLLP            = "llp"
	BusinessTypeOther          = "other"
)

// ValidBusinessTypes returns the accepted business type values
func ValidBusinessTypes() map[string]bool {
	return map[string]bool{
		BusinessTypeProprietorship: true,
		BusinessTypePartnership:    true,
		BusinessTypePrivateLimited: true,
		BusinessTypePublicLimited:  true,
		BusinessTypeLLP:            true,
		BusinessTypeOther:          true,
	}
}

// MayApprove returns true if the application can be approved
func (a *VendorApplication) MayApprove() bool {
	return a.Status == ApplicationStatusPending
}

// MayReject returns true if the application can be rejected
func (a *VendorApplication) MayReject() bool {
	return a.Status == ApplicationStatusPending
}

// IsReviewed returns true if the application reached a terminal state
func (a *VendorApplication) IsReviewed() bool {
	return a.Status == ApplicationStatusApproved || a.Status == ApplicationStatusRejected
}

// FilterByStatus returns the applications matching the given status,
// preserving the order of the input slice. "all" and "" match everything.
func FilterByStatus(apps []VendorApplication, status string) []VendorApplication {
	if status == "" || status == "all" {
		return apps
	}
	var out []VendorApplication
	for _, a := range apps {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

// ApplicationResponse is the JSON response format for vendor applications
type ApplicationResponse struct {
	ID              uint               `json:"id"`
	UserID          uint               `json:"user_id"`
	BusinessName    string             `json:"business_name"`
	BusinessType    string             `json:"business_type"`
	ContactNumber   string             `json:"contact_number"`
	Email           string             `json:"email"`
	Address         string             `json:"address"`
	City            string             `json:"city"`
	State           string             `json:"state"`
	Pincode         string             `json:"pincode"`
	GSTNumber       string             `json:"gst_number"`
	PANNumber       string             `json:"pan_number"`
	Status          string             `json:"status"`
	RejectionReason *string            `json:"rejection_reason"`
	ReviewedBy      *uint              `json:"reviewed_by"`
	ReviewerName    string             `json:"reviewer_name,omitempty"`
	ReviewedAt      *time.Time         `json:"reviewed_at"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Documents       []DocumentResponse `json:"documents,omitempty"`
}

// ToResponse converts VendorApplication to ApplicationResponse
func (a *VendorApplication) ToResponse() ApplicationResponse {
	resp := ApplicationResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		BusinessName:    a.BusinessName,
		BusinessType:    a.BusinessType,
		ContactNumber:   a.ContactNumber,
		Email:           a.Email,
		Address:         a.Address,
		City:            a.City,
		State:           a.State,
		Pincode:         a.Pincode,
		GSTNumber:       a.GSTNumber,
		PANNumber:       a.PANNumber,
		Status:          a.Status,
		RejectionReason: a.RejectionReason,
		ReviewedBy:      a.ReviewedBy,
		ReviewedAt:      a.ReviewedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	if a.Reviewer != nil {
		resp.ReviewerName = a.Reviewer.FullName
	}

	for _, doc := range a.Documents {
		resp.Documents = append(resp.Documents, doc.ToResponse())
	}

	return resp
}
