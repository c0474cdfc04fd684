package ports

import (
	"context"

	"github.com/serviclean/booking-platform/internal/core/domain"
)

// AuditRepository persists authentication events to the audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}
