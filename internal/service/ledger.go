package service

import (
	"context"
	"sync"

	"github.com/hilthontt/trafficguard/internal/domain"
	"github.com/hilthontt/trafficguard/internal/infrastructure/logging"
	"github.com/hilthontt/trafficguard/internal/infrastructure/metrics"
	"github.com/hilthontt/trafficguard/internal/infrastructure/ws"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// Ledger is the sole mutator of violation records. Reads go straight to the
// repository; every write runs under a per-record lock so concurrent
// transitions on the same violation serialize instead of racing.
type Ledger struct {
	violations domain.ViolationRepository
	audit      domain.AuditRepository
	core       *ws.Core // nil when streaming is disabled
	logger     logging.Logger

	locks sync.Map // violation id -> *sync.Mutex
}

func NewLedger(violations domain.ViolationRepository, audit domain.AuditRepository, core *ws.Core, logger logging.Logger) *Ledger {
	return &Ledger{
		violations: violations,
		audit:      audit,
		core:       core,
		logger:     logger,
	}
}

func (l *Ledger) getLock(id string) *sync.Mutex {
	lock, _ := l.locks.LoadOrStore(id, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// appendAudit records the event and pushes it to live dashboards. The trail
// is best effort: a failed append never rolls back the record change.
func (l *Ledger) appendAudit(ctx context.Context, event *domain.AuditEvent) {
	if err := l.audit.Append(ctx, event); err != nil {
		l.logger.Error(logging.Internal, logging.AuditTrail, "failed to append audit event", map[logging.ExtraKey]any{
			logging.ViolationId:  event.ViolationID,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	metrics.AuditEventsAppended.Inc()

	if l.core != nil {
		l.core.Broadcast() <- ws.NewAuditAppended(*event)
	}
}

// Create validates officer input, mints the record and logs a RECORDED
// audit event.
func (l *Ledger) Create(ctx context.Context, in domain.ViolationInput) (*domain.Violation, error) {
	v, err := domain.NewViolation(in)
	if err != nil {
		return nil, err
	}

	if err := l.violations.Create(ctx, v); err != nil {
		return nil, err
	}

	metrics.ViolationsRecorded.Inc()
	l.appendAudit(ctx, domain.NewRecordedEvent(v))

	l.logger.Info(logging.Internal, logging.Ledger, "violation recorded", map[logging.ExtraKey]any{
		logging.ViolationId: v.ID,
	})

	return v, nil
}

// Get resolves either a violation id or a plate number. Plate lookups
// return the most recently recorded violation for that vehicle.
func (l *Ledger) Get(ctx context.Context, idOrPlate string) (*domain.Violation, error) {
	v, err := l.violations.GetByID(ctx, idOrPlate)
	if err == nil {
		return v, nil
	}

	return l.violations.GetByPlate(ctx, idOrPlate)
}

// List returns one page of violations, newest first.
func (l *Ledger) List(ctx context.Context, filter domain.ViolationFilter) ([]domain.Violation, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	return l.violations.Find(ctx, filter)
}

// Pay settles a violation. Disputed records may still be paid; a paid
// record is terminal and yields a conflict.
func (l *Ledger) Pay(ctx context.Context, id string, in domain.PaymentInput) (*domain.Violation, error) {
	lock := l.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	v, err := l.violations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := v.Pay(in); err != nil {
		return nil, err
	}

	if err := l.violations.Update(ctx, v); err != nil {
		return nil, err
	}

	metrics.PaymentsReceived.Inc()
	l.appendAudit(ctx, domain.NewPaymentReceivedEvent(v))

	l.logger.Info(logging.Internal, logging.Ledger, "payment received", map[logging.ExtraKey]any{
		logging.ViolationId: v.ID,
		logging.ReceiptNo:   v.Payment.ReceiptNo,
	})

	return v, nil
}

// Dispute moves an unpaid violation into the disputed state.
func (l *Ledger) Dispute(ctx context.Context, id string) (*domain.Violation, error) {
	lock := l.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	v, err := l.violations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := v.Dispute(); err != nil {
		return nil, err
	}

	if err := l.violations.Update(ctx, v); err != nil {
		return nil, err
	}

	metrics.DisputesOpened.Inc()
	l.appendAudit(ctx, domain.NewDisputedEvent(v))

	return v, nil
}

// Delete removes a record in any state. The audit trail keeps the id as a
// weak reference after the record is gone.
func (l *Ledger) Delete(ctx context.Context, id string) (*domain.Violation, error) {
	lock := l.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	v, err := l.violations.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	l.locks.Delete(id)

	metrics.ViolationsDeleted.Inc()
	l.appendAudit(ctx, domain.NewDeletedEvent(v.ID, v.Plate))

	l.logger.Info(logging.Internal, logging.Ledger, "violation deleted", map[logging.ExtraKey]any{
		logging.ViolationId: v.ID,
	})

	return v, nil
}
