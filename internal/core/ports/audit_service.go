package ports

import (
	"context"

	"github.com/serviclean/booking-platform/internal/core/domain"
)

// AuditService records a single authentication event. Implementations must
// never propagate failures to the caller's request path.
type AuditService interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}

// AuditRecorder is the fire-and-forget side consumed by the auth handlers:
// events are enqueued for asynchronous processing.
type AuditRecorder interface {
	Enqueue(event domain.AuthEvent)
}
