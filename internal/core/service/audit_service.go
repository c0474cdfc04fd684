package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/serviclean/booking-platform/internal/core/domain"
	"github.com/serviclean/booking-platform/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists auth events to the
// audit trail.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single auth event. The audit trail is observability, not
// a ledger: persistence failures are reported to the caller for logging but
// must never reach a request path.
func (s *auditService) Record(ctx context.Context, event domain.AuthEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}

	s.log.Debug().
		Str("email", event.Email).
		Str("action", string(event.Action)).
		Bool("success", event.Success).
		Msg("auth event recorded")

	return nil
}
