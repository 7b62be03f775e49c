package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hilthontt/trafficguard/internal/domain"
)

type memoryViolation struct {
	record domain.Violation
	seq    uint64 // insertion order, breaks created_at ties
}

// memoryViolationRepository keeps the ledger in process. It implements the
// same contract as the mongo repository so the backend is swappable.
type memoryViolationRepository struct {
	violations map[string]memoryViolation
	nextSeq    uint64
	mu         sync.RWMutex
}

func NewMemoryViolationRepository() domain.ViolationRepository {
	return &memoryViolationRepository{
		violations: make(map[string]memoryViolation),
	}
}

func (r *memoryViolationRepository) Create(ctx context.Context, v *domain.Violation) error {
	if v == nil || v.ID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.violations[v.ID]; exists {
		return domain.ErrDuplicateViolation
	}

	r.nextSeq++
	r.violations[v.ID] = memoryViolation{record: *v, seq: r.nextSeq}

	return nil
}

func (r *memoryViolationRepository) GetByID(ctx context.Context, id string) (*domain.Violation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.violations[id]
	if !exists {
		return nil, domain.ErrViolationNotFound
	}

	record := entry.record
	return &record, nil
}

func (r *memoryViolationRepository) GetByPlate(ctx context.Context, plate string) (*domain.Violation, error) {
	plate = domain.NormalizePlate(plate)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var newest *memoryViolation
	for _, entry := range r.violations {
		if entry.record.Plate != plate {
			continue
		}
		if newest == nil || entry.seq > newest.seq {
			e := entry
			newest = &e
		}
	}

	if newest == nil {
		return nil, domain.ErrViolationNotFound
	}

	record := newest.record
	return &record, nil
}

func (r *memoryViolationRepository) Find(ctx context.Context, filter domain.ViolationFilter) ([]domain.Violation, int, error) {
	r.mu.RLock()
	matched := make([]memoryViolation, 0, len(r.violations))
	for _, entry := range r.violations {
		if matches(entry.record, filter) {
			matched = append(matched, entry)
		}
	}
	r.mu.RUnlock()

	// Newest first; insertion order keeps pagination stable when
	// timestamps collide.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].seq > matched[j].seq
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	page := make([]domain.Violation, 0, end-start)
	for _, entry := range matched[start:end] {
		page = append(page, entry.record)
	}

	return page, total, nil
}

func (r *memoryViolationRepository) All(ctx context.Context) ([]domain.Violation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Violation, 0, len(r.violations))
	for _, entry := range r.violations {
		all = append(all, entry.record)
	}

	return all, nil
}

func (r *memoryViolationRepository) Update(ctx context.Context, v *domain.Violation) error {
	if v == nil || v.ID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.violations[v.ID]
	if !exists {
		return domain.ErrViolationNotFound
	}

	entry.record = *v
	r.violations[v.ID] = entry

	return nil
}

func (r *memoryViolationRepository) Delete(ctx context.Context, id string) (*domain.Violation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.violations[id]
	if !exists {
		return nil, domain.ErrViolationNotFound
	}

	delete(r.violations, id)

	record := entry.record
	return &record, nil
}

func (r *memoryViolationRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func matches(v domain.Violation, filter domain.ViolationFilter) bool {
	if filter.Status != "" && v.Status != filter.Status {
		return false
	}
	if filter.Type != "" && v.Type != filter.Type {
		return false
	}
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(v.Plate), search) &&
			!strings.Contains(strings.ToLower(v.ID), search) &&
			!strings.Contains(strings.ToLower(v.Owner), search) &&
			!strings.Contains(strings.ToLower(v.Location), search) {
			return false
		}
	}
	return true
}
