package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterByStatus(t *testing.T) {
	apps := []VendorApplication{
		{ID: 1, BusinessName: "Acme Traders", Status: ApplicationStatusPending},
		{ID: 2, BusinessName: "Binary Foods", Status: ApplicationStatusApproved},
		{ID: 3, BusinessName: "Crest Textiles", Status: ApplicationStatusPending},
		{ID: 4, BusinessName: "Delta Metals", Status: ApplicationStatusRejected},
	}

	tests := []struct {
		name     string
		status   string
		expected []uint
	}{
		{name: "all keyword", status: "all", expected: []uint{1, 2, 3, 4}},
		{name: "empty status", status: "", expected: []uint{1, 2, 3, 4}},
		{name: "pending only", status: ApplicationStatusPending, expected: []uint{1, 3}},
		{name: "approved only", status: ApplicationStatusApproved, expected: []uint{2}},
		{name: "rejected only", status: ApplicationStatusRejected, expected: []uint{4}},
		{name: "unknown status", status: "archived", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByStatus(apps, tt.status)
			var ids []uint
			for _, a := range got {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestFilterByStatusPreservesOrder(t *testing.T) {
	apps := []VendorApplication{
		{ID: 9, Status: ApplicationStatusPending},
		{ID: 2, Status: ApplicationStatusPending},
		{ID: 5, Status: ApplicationStatusApproved},
		{ID: 1, Status: ApplicationStatusPending},
	}

	got := FilterByStatus(apps, ApplicationStatusPending)
	assert.Len(t, got, 3)
	assert.Equal(t, uint(9), got[0].ID)
	assert.Equal(t, uint(2), got[1].ID)
	assert.Equal(t, uint(1), got[2].ID)
}

func TestApplicationReviewGuards(t *testing.T) {
	pending := &VendorApplication{Status: ApplicationStatusPending}
	assert.True(t, pending.MayApprove())
	assert.True(t, pending.MayReject())
	assert.False(t, pending.IsReviewed())

	approved := &VendorApplication{Status: ApplicationStatusApproved}
	assert.False(t, approved.MayApprove())
	assert.False(t, approved.MayReject())
	assert.True(t, approved.IsReviewed())

	rejected := &VendorApplication{Status: ApplicationStatusRejected}
	assert.False(t, rejected.MayApprove())
	assert.False(t, rejected.MayReject())
	assert.True(t, rejected.IsReviewed())
}
