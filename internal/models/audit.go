package models

import (
	"time"
)

// AuditLog records an admin action on a vendor application. Entries are
// append-only; every review transition writes exactly one entry.
type AuditLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	VendorID       uint      `gorm:"not null;index" json:"vendor_id"`
	AdminID        uint      `gorm:"not null" json:"admin_id"`
	Action         string    `gorm:"size:50;not null" json:"action"` // approved, rejected, updated
	PreviousStatus string    `gorm:"size:50" json:"previous_status"`
	NewStatus      string    `gorm:"size:50" json:"new_status"`
	Comments       string    `gorm:"type:text" json:"comments"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`

	// Associations
	Admin User `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit action constants
const (
	AuditActionApproved = "approved"
	AuditActionRejected = "rejected"
)

// AuditLogResponse is the JSON response format for audit entries
type AuditLogResponse struct {
	ID             uint      `json:"id"`
	VendorID       uint      `json:"vendor_id"`
	AdminID        uint      `json:"admin_id"`
	AdminName      string    `json:"admin_name,omitempty"`
	Action         string    `json:"action"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Comments       string    `json:"comments"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToResponse converts AuditLog to AuditLogResponse
func (l *AuditLog) ToResponse() AuditLogResponse {
	resp := AuditLogResponse{
		ID:             l.ID,
		VendorID:       l.VendorID,
		AdminID:        l.AdminID,
		Action:         l.Action,
		PreviousStatus: l.PreviousStatus,
		NewStatus:      l.NewStatus,
		Comments:       l.Comments,
		CreatedAt:      l.CreatedAt,
	}
	if l.Admin.ID != 0 {
		resp.AdminName = l.Admin.FullName
	}
	return resp
}
