package service

import (
	"context"

	"github.com/hilthontt/trafficguard/internal/domain"
	"github.com/hilthontt/trafficguard/internal/infrastructure/logging"
	"github.com/hilthontt/trafficguard/internal/infrastructure/ws"
)

const defaultAuditLimit = 100

// AuditTrail exposes the read and admin side of the trail. Appending stays
// with the Ledger, which is the only writer.
type AuditTrail struct {
	audit  domain.AuditRepository
	core   *ws.Core // nil when streaming is disabled
	logger logging.Logger
}

func NewAuditTrail(audit domain.AuditRepository, core *ws.Core, logger logging.Logger) *AuditTrail {
	return &AuditTrail{
		audit:  audit,
		core:   core,
		logger: logger,
	}
}

// List returns one page of events, newest first.
func (a *AuditTrail) List(ctx context.Context, page, limit int) ([]domain.AuditEvent, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultAuditLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return a.audit.List(ctx, page, limit)
}

// Clear wipes the whole trail. Administrative only; record history is gone
// for good afterwards.
func (a *AuditTrail) Clear(ctx context.Context) error {
	if err := a.audit.Clear(ctx); err != nil {
		return err
	}

	if a.core != nil {
		a.core.Broadcast() <- ws.NewAuditCleared()
	}

	a.logger.Warn(logging.Internal, logging.AuditTrail, "audit trail cleared", nil)

	return nil
}
