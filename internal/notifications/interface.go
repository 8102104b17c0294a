package notifications

import (
	"context"

	"github.com/bankpulse/dashboard-api/internal/models"
)

// NotificationInterface defines the contract for notification services
type NotificationInterface interface {
	SendRunReport(ctx context.Context, report *models.RunReport) error
}
