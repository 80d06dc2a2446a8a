package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vendorly/kyc-api/internal/models"
)

func TestApplicationFSM_ApproveFromPending(t *testing.T) {
	app := &models.VendorApplication{Status: models.ApplicationStatusPending}
	machine := NewApplicationFSM(app)

	err := machine.Approve(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, app.Status)
	assert.Equal(t, models.ApplicationStatusApproved, machine.Current())
}

func TestApplicationFSM_RejectFromPending(t *testing.T) {
	app := &models.VendorApplication{Status: models.ApplicationStatusPending}
	machine := NewApplicationFSM(app)

	err := machine.Reject(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, app.Status)
}

func TestApplicationFSM_TerminalStatesStayTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{name: "approved is terminal", status: models.ApplicationStatusApproved},
		{name: "rejected is terminal", status: models.ApplicationStatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &models.VendorApplication{Status: tt.status}
			machine := NewApplicationFSM(app)

			assert.Error(t, machine.Approve(context.Background()))
			assert.Error(t, machine.Reject(context.Background()))
			// status must be untouched by the failed transition
			assert.Equal(t, tt.status, app.Status)
		})
	}
}

func TestApplicationFSM_Can(t *testing.T) {
	pending := NewApplicationFSM(&models.VendorApplication{Status: models.ApplicationStatusPending})
	assert.True(t, pending.Can("approve"))
	assert.True(t, pending.Can("reject"))

	approved := NewApplicationFSM(&models.VendorApplication{Status: models.ApplicationStatusApproved})
	assert.False(t, approved.Can("approve"))
	assert.False(t, approved.Can("reject"))
}
