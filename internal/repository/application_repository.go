package repository

import (
	"context"
	"errors"

	"github.com/vendorly/kyc-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateApplication is returned when the user already has an application.
	ErrDuplicateApplication = errors.New("an application already exists for this account")

	// ErrStaleReview is returned when a review transition matched no pending row,
	// meaning another admin decided the application first.
	ErrStaleReview = errors.New("application is no longer pending")
)

// ApplicationRepository defines the interface for vendor application data access
type ApplicationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.VendorApplication, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.VendorApplication, error)
	FindByUser(ctx context.Context, userID uint) (*models.VendorApplication, error)
	Create(ctx context.Context, app *models.VendorApplication) error
	Update(ctx context.Context, app *models.VendorApplication) error
	List(ctx context.Context, query *ApplicationQuery) ([]models.VendorApplication, int64, error)
	GetStats(ctx context.Context) (*ApplicationStats, error)
	ReviewTransition(ctx context.Context, app *models.VendorApplication, audit *models.AuditLog) error
}

// ApplicationQuery extends ListQuery with application-specific filters
type ApplicationQuery struct {
	*ListQuery
	Status string
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new vendor application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) FindByID(ctx context.Context, id uint) (*models.VendorApplication, error) {
	var app models.VendorApplication
	err := r.db.WithContext(ctx).First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.VendorApplication, error) {
	var app models.VendorApplication
	err := r.db.WithContext(ctx).
		Joins("User").
		Joins("Reviewer").
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC")
		}).
		Preload("AuditLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("AuditLogs.Admin").
		First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) FindByUser(ctx context.Context, userID uint) (*models.VendorApplication, error) {
	var app models.VendorApplication
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC")
		}).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *models.VendorApplication) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		if isDuplicateKeyError(err, "idx_vendor_applications_user_id") {
			return ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *applicationRepository) Update(ctx context.Context, app *models.VendorApplication) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *applicationRepository) List(ctx context.Context, query *ApplicationQuery) ([]models.VendorApplication, int64, error) {
	var apps []models.VendorApplication
	var total int64

	db := r.db.WithContext(ctx).Model(&models.VendorApplication{})

	// Apply status filter ("all" and empty mean no filter)
	if query.Status != "" && query.Status != "all" {
		db = db.Where("vendor_applications.status = ?", query.Status)
	}

	// Apply search
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("business_name ILIKE ? OR email ILIKE ? OR gst_number ILIKE ? OR pan_number ILIKE ? OR city ILIKE ?",
			search, search, search, search, search)
	}

	// Count total using a separate session so the main query is not altered by Count()
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply sorting
	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("vendor_applications.created_at DESC")
	}

	// Apply pagination
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("User").
		Preload("Documents").
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// ApplicationStats holds the count of applications by status
type ApplicationStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

func (r *applicationRepository) GetStats(ctx context.Context) (*ApplicationStats, error) {
	stats := &ApplicationStats{}

	rows, err := r.db.WithContext(ctx).
		Model(&models.VendorApplication{}).
		Select("status, count(*) as count").
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var total int64
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		total += count
		switch status {
		case models.ApplicationStatusPending:
			stats.Pending = count
		case models.ApplicationStatusApproved:
			stats.Approved = count
		case models.ApplicationStatusRejected:
			stats.Rejected = count
		}
	}
	stats.Total = total

	return stats, nil
}

// ReviewTransition persists an approve/reject decision and its audit entry in
// one transaction. The status write is guarded on the row still being pending,
// so a concurrent decision loses with ErrStaleReview instead of overwriting.
func (r *applicationRepository) ReviewTransition(ctx context.Context, app *models.VendorApplication, audit *models.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.VendorApplication{}).
			Where("id = ? AND status = ?", app.ID, models.ApplicationStatusPending).
			Updates(map[string]interface{}{
				"status":           app.Status,
				"rejection_reason": app.RejectionReason,
				"reviewed_by":      app.ReviewedBy,
				"reviewed_at":      app.ReviewedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleReview
		}
		return tx.Create(audit).Error
	})
}
