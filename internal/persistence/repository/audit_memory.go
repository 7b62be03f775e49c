package repository

import (
	"context"
	"sync"

	"github.com/hilthontt/trafficguard/internal/domain"
)

// memoryAuditLogRepository holds the trail newest-first in a slice.
type memoryAuditLogRepository struct {
	events []domain.AuditEvent
	mu     sync.RWMutex
}

func NewMemoryAuditLogRepository() domain.AuditRepository {
	return &memoryAuditLogRepository{}
}

func (r *memoryAuditLogRepository) Append(ctx context.Context, event *domain.AuditEvent) error {
	if event == nil || event.ID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append([]domain.AuditEvent{*event}, r.events...)

	return nil
}

func (r *memoryAuditLogRepository) List(ctx context.Context, page, limit int) ([]domain.AuditEvent, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.events)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	events := make([]domain.AuditEvent, end-start)
	copy(events, r.events[start:end])

	return events, total, nil
}

func (r *memoryAuditLogRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil

	return nil
}

func (r *memoryAuditLogRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
