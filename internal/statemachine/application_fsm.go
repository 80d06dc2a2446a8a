package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/vendorly/kyc-api/internal/models"
)

// ApplicationFSM wraps a vendor application with its review state machine.
// pending is the only initial state; approved and rejected are terminal.
type ApplicationFSM struct {
	app *models.VendorApplication
	fsm *fsm.FSM
}

// NewApplicationFSM creates a new application state machine
func NewApplicationFSM(app *models.VendorApplication) *ApplicationFSM {
	afsm := &ApplicationFSM{
		app: app,
	}

	afsm.fsm = fsm.NewFSM(
		app.Status,
		fsm.Events{
			// pending → approved
			{Name: "approve", Src: []string{models.ApplicationStatusPending}, Dst: models.ApplicationStatusApproved},

			// pending → rejected
			{Name: "reject", Src: []string{models.ApplicationStatusPending}, Dst: models.ApplicationStatusRejected},
		},
		fsm.Callbacks{},
	)

	return afsm
}

// Approve transitions the application to approved
func (a *ApplicationFSM) Approve(ctx context.Context) error {
	if !a.app.MayApprove() {
		return fmt.Errorf("application cannot be approved in current state: %s", a.app.Status)
	}

	if err := a.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve application: %w", err)
	}

	a.app.Status = a.fsm.Current()
	return nil
}

// Reject transitions the application to rejected
func (a *ApplicationFSM) Reject(ctx context.Context) error {
	if !a.app.MayReject() {
		return fmt.Errorf("application cannot be rejected in current state: %s", a.app.Status)
	}

	if err := a.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject application: %w", err)
	}

	a.app.Status = a.fsm.Current()
	return nil
}

// Current returns the current state
func (a *ApplicationFSM) Current() string {
	return a.fsm.Current()
}

// Can checks if a transition is possible
func (a *ApplicationFSM) Can(event string) bool {
	return a.fsm.Can(event)
}
