package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/habit-alert-api/internal/models"
)

// ScheduleRepository provides persistence for materialized day schedules.
// The whole collection lives in one blob; the mutex keeps read-modify-write
// cycles single-writer.
type ScheduleRepository struct {
	store BlobStore
	mu    sync.Mutex
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(store BlobStore) *ScheduleRepository {
	return &ScheduleRepository{store: store}
}

// List returns every materialized day schedule.
func (r *ScheduleRepository) List(ctx context.Context) ([]models.DaySchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(ctx)
}

// FindByDate loads the schedule for a calendar-date key, or nil when the
// date has not been materialized.
func (r *ScheduleRepository) FindByDate(ctx context.Context, date string) (*models.DaySchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	schedules, err := r.listLocked(ctx)
	if err != nil {
		return nil, err
	}
	for i := range schedules {
		if schedules[i].Date == date {
			return &schedules[i], nil
		}
	}
	return nil, nil
}

// Upsert replaces the schedule with a matching date or appends it.
func (r *ScheduleRepository) Upsert(ctx context.Context, schedule models.DaySchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	schedules, err := r.listLocked(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range schedules {
		if schedules[i].Date == schedule.Date {
			schedules[i] = schedule
			replaced = true
			break
		}
	}
	if !replaced {
		schedules = append(schedules, schedule)
	}

	return saveCollection(ctx, r.store, NamespaceDaySchedules, schedules)
}

// DeleteAll drops every materialized schedule, forcing rematerialization
// from templates on next access.
func (r *ScheduleRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(ctx, NamespaceDaySchedules)
}

func (r *ScheduleRepository) listLocked(ctx context.Context) ([]models.DaySchedule, error) {
	var schedules []models.DaySchedule
	if err := loadCollection(ctx, r.store, NamespaceDaySchedules, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}
