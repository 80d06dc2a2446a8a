package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vendorly/kyc-api/internal/models"
	"github.com/vendorly/kyc-api/internal/repository"
)

type exportTestAppRepo struct {
	repository.ApplicationRepository
	mockList     func(ctx context.Context, query *repository.ApplicationQuery) ([]models.VendorApplication, int64, error)
	mockGetStats func(ctx context.Context) (*repository.ApplicationStats, error)
}

func (m *exportTestAppRepo) List(ctx context.Context, query *repository.ApplicationQuery) ([]models.VendorApplication, int64, error) {
	return m.mockList(ctx, query)
}

func (m *exportTestAppRepo) GetStats(ctx context.Context) (*repository.ApplicationStats, error) {
	return m.mockGetStats(ctx)
}

func TestExportCSV(t *testing.T) {
	mockRepo := &exportTestAppRepo{}
	service := NewExportService(mockRepo)

	reviewed := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	mockRepo.mockList = func(ctx context.Context, query *repository.ApplicationQuery) ([]models.VendorApplication, int64, error) {
		return []models.VendorApplication{
			{
				ID:           1,
				BusinessName: "Acme Traders",
				BusinessType: models.BusinessTypeProprietorship,
				Email:        "acme@example.com",
				City:         "Pune",
				State:        "Maharashtra",
				GSTNumber:    "27AAPFU0939F1ZV",
				PANNumber:    "AAPFU0939F",
				Status:       models.ApplicationStatusApproved,
				ReviewedAt:   &reviewed,
				Documents:    []models.Document{{ID: 1}, {ID: 2}},
			},
			{
				ID:           2,
				BusinessName: "Bright Supplies",
				BusinessType: models.BusinessTypeLLP,
				Email:        "bright@example.com",
				City:         "Jaipur",
				State:        "Rajasthan",
				GSTNumber:    "08AABCB1234C1Z5",
				PANNumber:    "AABCB1234C",
				Status:       models.ApplicationStatusPending,
			},
		}, 2, nil
	}
	mockRepo.mockGetStats = func(ctx context.Context) (*repository.ApplicationStats, error) {
		return &repository.ApplicationStats{Total: 2, Pending: 1, Approved: 1}, nil
	}

	data, filename, err := service.ExportCSV(context.Background(), &repository.ApplicationQuery{ListQuery: repository.NewListQuery()})
	assert.NoError(t, err)
	assert.Contains(t, filename, "vendor_applications_")
	assert.Contains(t, filename, ".csv")

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	assert.NoError(t, err)

	// Summary section carries the per-status counts
	assert.Equal(t, []string{"Pending", "1"}, records[4])
	assert.Equal(t, []string{"Approved", "1"}, records[5])
	assert.Equal(t, []string{"Total", "2"}, records[7])

	// Register rows follow the column header
	last := records[len(records)-1]
	assert.Equal(t, "2", last[0])
	assert.Equal(t, "Bright Supplies", last[1])
	assert.Equal(t, models.ApplicationStatusPending, last[8])
	assert.Equal(t, "", last[11])

	first := records[len(records)-2]
	assert.Equal(t, "Acme Traders", first[1])
	assert.Equal(t, "2026-03-15", first[11])
	assert.Equal(t, "2", first[9])
}

func TestExportCSV_EmptyRegister(t *testing.T) {
	mockRepo := &exportTestAppRepo{}
	service := NewExportService(mockRepo)

	mockRepo.mockList = func(ctx context.Context, query *repository.ApplicationQuery) ([]models.VendorApplication, int64, error) {
		return nil, 0, nil
	}
	mockRepo.mockGetStats = func(ctx context.Context) (*repository.ApplicationStats, error) {
		return &repository.ApplicationStats{}, nil
	}

	data, _, err := service.ExportCSV(context.Background(), &repository.ApplicationQuery{ListQuery: repository.NewListQuery()})
	assert.NoError(t, err)
	assert.Contains(t, string(data), "Vendor Application Register")
	assert.Contains(t, string(data), "Applications")
}
