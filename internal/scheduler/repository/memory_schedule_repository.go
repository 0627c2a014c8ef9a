package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/scheduler/domain"
)

// MemoryScheduleRepository is an in-memory schedule store. Used in tests and
// useful for single-process deployments without durable scheduling needs.
type MemoryScheduleRepository struct {
	mu        sync.Mutex
	schedules map[uuid.UUID]*domain.Schedule
}

// NewMemoryScheduleRepository creates a new MemoryScheduleRepository.
func NewMemoryScheduleRepository() *MemoryScheduleRepository {
	return &MemoryScheduleRepository{
		schedules: make(map[uuid.UUID]*domain.Schedule),
	}
}

// Create stores a copy of the schedule.
func (r *MemoryScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *schedule
	r.schedules[schedule.ID] = &copied
	return nil
}

// GetDueSchedules returns copies of pending schedules due at or before now,
// oldest first.
func (r *MemoryScheduleRepository) GetDueSchedules(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*domain.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []*domain.Schedule
	for _, schedule := range r.schedules {
		if schedule.Status == domain.ScheduleStatusPending && !schedule.FireAt.After(now) {
			copied := *schedule
			due = append(due, &copied)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].FireAt.Before(due[j].FireAt)
	})

	if len(due) > limit {
		due = due[:limit]
	}

	return due, nil
}

// Update replaces the stored schedule.
func (r *MemoryScheduleRepository) Update(ctx context.Context, schedule *domain.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *schedule
	r.schedules[schedule.ID] = &copied
	return nil
}
