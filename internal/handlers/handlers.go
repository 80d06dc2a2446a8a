package handlers

import (
	"github.com/vendorly/kyc-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	Application  *ApplicationHandler
	Admin        *AdminHandler
	Notification *NotificationHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		Application:  NewApplicationHandler(svcs.Application, svcs.Audit),
		Admin:        NewAdminHandler(svcs.Application, svcs.Audit, svcs.Export, svcs.Report),
		Notification: NewNotificationHandler(svcs.Notification),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(svcs.Job),
	}
}
