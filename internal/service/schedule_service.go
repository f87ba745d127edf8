package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/habit-alert-api/internal/models"
	"github.com/noah-isme/habit-alert-api/pkg/clock"
	appErrors "github.com/noah-isme/habit-alert-api/pkg/errors"
)

type scheduleRepository interface {
	FindByDate(ctx context.Context, date string) (*models.DaySchedule, error)
	Upsert(ctx context.Context, schedule models.DaySchedule) error
	DeleteAll(ctx context.Context) error
}

type templateRepository interface {
	Get(ctx context.Context) (models.CustomTemplates, error)
	GetByType(ctx context.Context, dayType models.DayType) ([]models.TemplateEntry, error)
	Save(ctx context.Context, dayType models.DayType, entries []models.TemplateEntry) error
	DeleteAll(ctx context.Context) error
}

// AddActivityRequest describes payload for adding a custom activity.
type AddActivityRequest struct {
	Time string `json:"time" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// TemplateEntryRequest is one slot of a template payload.
type TemplateEntryRequest struct {
	Time string `json:"time" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// SaveTemplateRequest replaces the custom template for a day type.
type SaveTemplateRequest struct {
	Entries []TemplateEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// ScheduleService materializes and mutates day schedules. Resolution is
// lazy: the first access to a date builds its activity list from the
// template in force at that moment and persists it; later template edits
// never rewrite an already-materialized day.
type ScheduleService struct {
	schedules scheduleRepository
	templates templateRepository
	clk       clock.Clock
	validator *validator.Validate
	logger    *zap.Logger
	onChange  func(models.DaySchedule)
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(schedules scheduleRepository, templates templateRepository, clk clock.Clock, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if clk == nil {
		clk = clock.New()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{schedules: schedules, templates: templates, clk: clk, validator: validate, logger: logger}
}

// SetChangeListener registers a hook invoked with the new state whenever
// today's schedule is mutated, so reminders can be recomputed.
func (s *ScheduleService) SetChangeListener(fn func(models.DaySchedule)) {
	s.onChange = fn
}

// Resolve returns the schedule for a calendar-date key, materializing and
// persisting it on first access. Repeated calls without mutation return
// the stored schedule verbatim.
func (s *ScheduleService) Resolve(ctx context.Context, dateKey string) (models.DaySchedule, error) {
	date, err := parseDateKey(dateKey)
	if err != nil {
		return models.DaySchedule{}, err
	}

	existing, err := s.schedules.FindByDate(ctx, dateKey)
	if err != nil {
		return models.DaySchedule{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	dayType := models.ClassifyDate(date)
	entries, err := s.templates.GetByType(ctx, dayType)
	if err != nil {
		return models.DaySchedule{}, err
	}
	if len(entries) == 0 {
		entries = models.DefaultTemplates[dayType]
	}

	activities := make([]models.Activity, 0, len(entries))
	for i, entry := range entries {
		activities = append(activities, models.Activity{
			ID:   fmt.Sprintf("%s_%d", dateKey, i),
			Time: entry.Time,
			Name: entry.Name,
		})
	}

	schedule := models.DaySchedule{Date: dateKey, Type: dayType, Activities: activities}
	if err := s.schedules.Upsert(ctx, schedule); err != nil {
		return models.DaySchedule{}, err
	}
	s.logger.Sugar().Infow("materialized day schedule", "date", dateKey, "type", dayType, "activities", len(activities))

	return schedule, nil
}

// ToggleActivity flips an activity's completion, stamping or clearing the
// completion instant, and persists the full schedule.
func (s *ScheduleService) ToggleActivity(ctx context.Context, dateKey, activityID string) (models.DaySchedule, error) {
	schedule, err := s.Resolve(ctx, dateKey)
	if err != nil {
		return models.DaySchedule{}, err
	}

	found := false
	for i := range schedule.Activities {
		if schedule.Activities[i].ID != activityID {
			continue
		}
		found = true
		if schedule.Activities[i].Completed {
			schedule.Activities[i].Completed = false
			schedule.Activities[i].CompletedAt = nil
		} else {
			now := s.clk.Now()
			schedule.Activities[i].Completed = true
			schedule.Activities[i].CompletedAt = &now
		}
		break
	}
	if !found {
		return models.DaySchedule{}, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
	}

	if err := s.schedules.Upsert(ctx, schedule); err != nil {
		return models.DaySchedule{}, err
	}
	s.notifyChange(schedule)

	return schedule, nil
}

// AddActivity appends a custom activity and keeps the list sorted
// ascending by time. The sort is stable so equal times keep insertion
// order.
func (s *ScheduleService) AddActivity(ctx context.Context, dateKey string, req AddActivityRequest) (models.DaySchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.DaySchedule{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "time and name are required")
	}
	if !validClockTime(req.Time) {
		return models.DaySchedule{}, appErrors.Clone(appErrors.ErrValidation, "time must be HH:MM in 24-hour format")
	}

	schedule, err := s.Resolve(ctx, dateKey)
	if err != nil {
		return models.DaySchedule{}, err
	}

	schedule.Activities = append(schedule.Activities, models.Activity{
		ID:   fmt.Sprintf("%s_%d", dateKey, s.clk.Now().UnixNano()),
		Time: req.Time,
		Name: req.Name,
	})
	sort.SliceStable(schedule.Activities, func(i, j int) bool {
		return schedule.Activities[i].Time < schedule.Activities[j].Time
	})

	if err := s.schedules.Upsert(ctx, schedule); err != nil {
		return models.DaySchedule{}, err
	}
	s.notifyChange(schedule)

	return schedule, nil
}

// CompletionStats summarises progress through one day's activities.
func (s *ScheduleService) CompletionStats(ctx context.Context, dateKey string) (models.CompletionStats, error) {
	schedule, err := s.Resolve(ctx, dateKey)
	if err != nil {
		return models.CompletionStats{}, err
	}

	stats := models.CompletionStats{Total: len(schedule.Activities)}
	for _, a := range schedule.Activities {
		if a.Completed {
			stats.Completed++
		}
	}
	if stats.Total > 0 {
		stats.Percentage = int(float64(stats.Completed)/float64(stats.Total)*100 + 0.5)
	}
	return stats, nil
}

// Templates returns the custom overrides merged view: for each day type the
// custom template when present, else the built-in default.
func (s *ScheduleService) Templates(ctx context.Context) (map[models.DayType][]models.TemplateEntry, error) {
	custom, err := s.templates.Get(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[models.DayType][]models.TemplateEntry, 2)
	for _, dayType := range []models.DayType{models.DayTypeOn, models.DayTypeOff} {
		if entries, ok := custom[dayType]; ok && len(entries) > 0 {
			out[dayType] = entries
		} else {
			out[dayType] = models.DefaultTemplates[dayType]
		}
	}
	return out, nil
}

// SaveTemplate replaces the custom template for a day type. Existing
// materialized days are not touched.
func (s *ScheduleService) SaveTemplate(ctx context.Context, dayType models.DayType, req SaveTemplateRequest) error {
	if !dayType.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "day type must be onday or offday")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "template entries need time and name")
	}

	entries := make([]models.TemplateEntry, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if !validClockTime(entry.Time) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid entry time %q", entry.Time))
		}
		entries = append(entries, models.TemplateEntry{Time: entry.Time, Name: entry.Name})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Time < entries[j].Time })

	return s.templates.Save(ctx, dayType, entries)
}

// ResetTemplate writes the built-in default back as the stored template
// for a day type.
func (s *ScheduleService) ResetTemplate(ctx context.Context, dayType models.DayType) error {
	if !dayType.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "day type must be onday or offday")
	}
	return s.templates.Save(ctx, dayType, models.DefaultTemplates[dayType])
}

// ClearSchedules drops every materialized day, forcing rematerialization
// from the templates currently in force.
func (s *ScheduleService) ClearSchedules(ctx context.Context) error {
	return s.schedules.DeleteAll(ctx)
}

// ClearAllData drops materialized days and template overrides.
func (s *ScheduleService) ClearAllData(ctx context.Context) error {
	if err := s.schedules.DeleteAll(ctx); err != nil {
		return err
	}
	return s.templates.DeleteAll(ctx)
}

func (s *ScheduleService) notifyChange(schedule models.DaySchedule) {
	if s.onChange == nil {
		return
	}
	// Only today's schedule affects pending reminders.
	if schedule.Date == models.DateKey(s.clk.Now()) {
		s.onChange(schedule)
	}
}

func parseDateKey(dateKey string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateKey, time.Local)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	return date, nil
}

func validClockTime(value string) bool {
	if len(value) != 5 {
		return false
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}
