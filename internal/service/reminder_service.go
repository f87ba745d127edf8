package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/habit-alert-api/internal/models"
	"github.com/noah-isme/habit-alert-api/internal/notify"
	"github.com/noah-isme/habit-alert-api/pkg/clock"
	"github.com/noah-isme/habit-alert-api/pkg/jobs"
)

// ReminderKind separates the two trigger sets so each can be rescheduled
// without disturbing the other.
type ReminderKind string

const (
	KindActivity   ReminderKind = "activity"
	KindAssignment ReminderKind = "assignment"
)

const reminderTitle = "Babes Habit Alert"

type assignmentNotifier interface {
	WithNotificationToday(ctx context.Context) ([]models.Assignment, error)
}

type todayResolver interface {
	Resolve(ctx context.Context, dateKey string) (models.DaySchedule, error)
}

type deliveryQueue interface {
	Enqueue(job jobs.Job) error
}

// Trigger is one pending one-shot reminder tied to a wall-clock instant.
type Trigger struct {
	ID      string         `json:"id"`
	Kind    ReminderKind   `json:"kind"`
	FireAt  time.Time      `json:"fire_at"`
	Message notify.Message `json:"message"`

	timer clock.Timer
}

// ReminderService converts scheduled activities and assignment
// notification times into cancellable one-shot triggers. Rescheduling a
// kind cancels its whole trigger set before registering anything new, all
// under one lock, so old and new triggers for the same reminder are never
// live together.
type ReminderService struct {
	clk       clock.Clock
	queue     deliveryQueue
	schedules todayResolver
	tasks     assignmentNotifier
	logger    *zap.Logger

	observer func(event string, kind ReminderKind)

	mu      sync.Mutex
	pending map[ReminderKind]map[string]*Trigger
}

// NewReminderService instantiates ReminderService.
func NewReminderService(clk clock.Clock, queue deliveryQueue, schedules todayResolver, tasks assignmentNotifier, logger *zap.Logger) *ReminderService {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		clk:       clk,
		queue:     queue,
		schedules: schedules,
		tasks:     tasks,
		logger:    logger,
		pending: map[ReminderKind]map[string]*Trigger{
			KindActivity:   {},
			KindAssignment: {},
		},
	}
}

// SetObserver installs a callback for scheduled/fired/cancelled events,
// used for metrics.
func (s *ReminderService) SetObserver(fn func(event string, kind ReminderKind)) {
	s.observer = fn
}

// ScheduleActivityReminders replaces the activity trigger set with one
// trigger per incomplete activity whose instant is still in the future.
// Same-day times already passed are skipped, never fired retroactively.
func (s *ReminderService) ScheduleActivityReminders(activities []models.Activity, date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelKindLocked(KindActivity)

	now := s.clk.Now()
	for _, activity := range activities {
		if activity.Completed {
			continue
		}
		fireAt, ok := combineDateAndTime(date, activity.Time)
		if !ok || !fireAt.After(now) {
			continue
		}
		msg := notify.Message{
			Title: reminderTitle,
			Body:  fmt.Sprintf("Babes. It's time of %s", activity.Name),
			Tag:   activity.ID,
		}
		s.registerLocked(KindActivity, activity.ID, fireAt, msg, now)
	}
}

// ScheduleAssignmentReminders replaces the assignment trigger set with one
// trigger per pending assignment that has a notification time, firing at
// that time on the current calendar day. The same skip-if-passed policy as
// activity reminders applies.
func (s *ReminderService) ScheduleAssignmentReminders(ctx context.Context) error {
	assignments, err := s.tasks.WithNotificationToday(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelKindLocked(KindAssignment)

	now := s.clk.Now()
	for _, assignment := range assignments {
		fireAt, ok := combineDateAndTime(now, assignment.NotificationTime)
		if !ok || !fireAt.After(now) {
			continue
		}
		msg := notify.Message{
			Title: reminderTitle,
			Body:  fmt.Sprintf("Babes. %s (%s) is due %s", assignment.Title, assignment.Subject, assignment.LastSubmitDate),
			Tag:   assignment.ID,
		}
		s.registerLocked(KindAssignment, assignment.ID, fireAt, msg, now)
	}
	return nil
}

// CancelAll cancels every pending trigger in both sets. After it returns
// no previously registered trigger can fire.
func (s *ReminderService) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelKindLocked(KindActivity)
	s.cancelKindLocked(KindAssignment)
}

// Pending returns a snapshot of the registered triggers, soonest first is
// not guaranteed; callers sort if they care.
func (s *ReminderService) Pending() []Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Trigger
	for _, set := range s.pending {
		for _, t := range set {
			out = append(out, *t)
		}
	}
	return out
}

// PendingCount reports the number of live triggers for one kind.
func (s *ReminderService) PendingCount(kind ReminderKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[kind])
}

// RefreshToday recomputes both trigger sets from the current store state:
// today's resolved schedule and today's assignment notifications.
func (s *ReminderService) RefreshToday(ctx context.Context) error {
	now := s.clk.Now()
	schedule, err := s.schedules.Resolve(ctx, models.DateKey(now))
	if err != nil {
		return err
	}
	s.ScheduleActivityReminders(schedule.Activities, now)
	return s.ScheduleAssignmentReminders(ctx)
}

// Run performs the initial pass and then re-runs the daily passes on the
// refresh interval until the context is cancelled. Pending triggers are
// cancelled on the way out.
func (s *ReminderService) Run(ctx context.Context, refreshInterval time.Duration) {
	if err := s.RefreshToday(ctx); err != nil {
		s.logger.Sugar().Errorw("initial reminder pass failed", "error", err)
	}

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.CancelAll()
			return
		case <-ticker.C:
			if err := s.RefreshToday(ctx); err != nil {
				s.logger.Sugar().Errorw("reminder refresh failed", "error", err)
			}
		}
	}
}

func (s *ReminderService) registerLocked(kind ReminderKind, id string, fireAt time.Time, msg notify.Message, now time.Time) {
	trigger := &Trigger{ID: id, Kind: kind, FireAt: fireAt, Message: msg}
	trigger.timer = s.clk.AfterFunc(fireAt.Sub(now), func() {
		s.fire(kind, trigger)
	})
	s.pending[kind][id] = trigger
	s.observe("scheduled", kind)
}

func (s *ReminderService) cancelKindLocked(kind ReminderKind) {
	for id, trigger := range s.pending[kind] {
		trigger.timer.Stop()
		delete(s.pending[kind], id)
		s.observe("cancelled", kind)
	}
}

// fire delivers at most once. The identity check matters: Stop cannot
// cancel a callback the runtime has already dispatched, and a reschedule
// may have registered a newer trigger under the same id by the time that
// stale callback acquires the lock. Only the exact trigger still in the
// pending set is allowed to deliver.
func (s *ReminderService) fire(kind ReminderKind, trigger *Trigger) {
	s.mu.Lock()
	live := s.pending[kind][trigger.ID] == trigger
	if live {
		delete(s.pending[kind], trigger.ID)
	}
	s.mu.Unlock()
	if !live {
		return
	}

	s.observe("fired", kind)
	job := jobs.Job{ID: trigger.ID, Type: string(kind), Payload: trigger.Message}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Sugar().Errorw("reminder delivery enqueue failed", "kind", kind, "id", trigger.ID, "error", err)
	}
}

func (s *ReminderService) observe(event string, kind ReminderKind) {
	if s.observer != nil {
		s.observer(event, kind)
	}
}

// combineDateAndTime anchors an HH:MM clock time on the calendar day of
// the given date, in that date's location.
func combineDateAndTime(date time.Time, clockTime string) (time.Time, bool) {
	parsed, err := time.Parse("15:04", clockTime)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), true
}
