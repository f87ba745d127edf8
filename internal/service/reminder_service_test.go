package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/habit-alert-api/internal/models"
	"github.com/noah-isme/habit-alert-api/internal/notify"
	"github.com/noah-isme/habit-alert-api/pkg/clock"
	"github.com/noah-isme/habit-alert-api/pkg/jobs"
)

type stubDeliveryQueue struct {
	mu   sync.Mutex
	jobs []jobs.Job
}

func (q *stubDeliveryQueue) Enqueue(job jobs.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *stubDeliveryQueue) delivered() []jobs.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]jobs.Job, len(q.jobs))
	copy(out, q.jobs)
	return out
}

type stubTodayResolver struct {
	schedule models.DaySchedule
	calls    int
}

func (r *stubTodayResolver) Resolve(_ context.Context, dateKey string) (models.DaySchedule, error) {
	r.calls++
	r.schedule.Date = dateKey
	return r.schedule, nil
}

type stubAssignmentNotifier struct {
	assignments []models.Assignment
}

func (n *stubAssignmentNotifier) WithNotificationToday(_ context.Context) ([]models.Assignment, error) {
	return n.assignments, nil
}

func newReminderServiceForTest(t *testing.T) (*ReminderService, *stubDeliveryQueue, *stubTodayResolver, *stubAssignmentNotifier, *clock.Manual) {
	t.Helper()
	queue := &stubDeliveryQueue{}
	resolver := &stubTodayResolver{}
	notifier := &stubAssignmentNotifier{}
	clk := clock.NewManual(time.Date(2026, 9, 1, 6, 0, 0, 0, time.Local))
	svc := NewReminderService(clk, queue, resolver, notifier, nil)
	return svc, queue, resolver, notifier, clk
}

func TestScheduleActivityRemindersSkipsPassedAndCompleted(t *testing.T) {
	svc, _, _, _, clk := newReminderServiceForTest(t)

	// Clock sits at 06:00; the 05:00 slot has already passed.
	svc.ScheduleActivityReminders([]models.Activity{
		{ID: "a1", Time: "05:00", Name: "Meditation & Wake"},
		{ID: "a2", Time: "07:00", Name: "Travel Time"},
		{ID: "a3", Time: "08:00", Name: "Classes Time", Completed: true},
	}, clk.Now())

	assert.Equal(t, 1, svc.PendingCount(KindActivity))
	pending := svc.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "a2", pending[0].ID)
	assert.Equal(t, time.Date(2026, 9, 1, 7, 0, 0, 0, time.Local), pending[0].FireAt)
}

func TestTriggerFiresAtMostOnce(t *testing.T) {
	svc, queue, _, _, clk := newReminderServiceForTest(t)

	svc.ScheduleActivityReminders([]models.Activity{
		{ID: "a2", Time: "07:00", Name: "Travel Time"},
	}, clk.Now())

	clk.Advance(30 * time.Minute)
	assert.Empty(t, queue.delivered())

	clk.Advance(30 * time.Minute)
	delivered := queue.delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, "a2", delivered[0].ID)
	assert.Equal(t, string(KindActivity), delivered[0].Type)
	assert.Equal(t, 0, svc.PendingCount(KindActivity))

	clk.Advance(time.Hour)
	assert.Len(t, queue.delivered(), 1)
}

func TestFiredMessageFormat(t *testing.T) {
	svc, queue, _, _, clk := newReminderServiceForTest(t)

	svc.ScheduleActivityReminders([]models.Activity{
		{ID: "a2", Time: "07:00", Name: "Travel Time"},
	}, clk.Now())
	clk.Advance(time.Hour)

	delivered := queue.delivered()
	require.Len(t, delivered, 1)
	msg, ok := delivered[0].Payload.(notify.Message)
	require.True(t, ok)
	assert.Equal(t, "Babes Habit Alert", msg.Title)
	assert.Equal(t, "Babes. It's time of Travel Time", msg.Body)
	assert.Equal(t, "a2", msg.Tag)
}

func TestRescheduleCancelsOldTriggers(t *testing.T) {
	svc, queue, _, _, clk := newReminderServiceForTest(t)

	svc.ScheduleActivityReminders([]models.Activity{
		{ID: "old", Time: "07:00", Name: "Travel Time"},
	}, clk.Now())

	svc.ScheduleActivityReminders([]models.Activity{
		{ID: "new", Time: "08:00", Name: "Classes Time"},
	}, clk.Now())

	assert.Equal(t, 1, svc.PendingCount(KindActivity))

	// Past the old trigger's instant: it must never fire.
	clk.Advance(90 * time.Minute)
	delivered := queue.delivered()
	require.Len(t, delivered, 0)

	clk.Advance(30 * time.Minute)
	delivered = queue.delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, "new", delivered[0].ID)
}

func TestRescheduleOneKindLeavesTheOther(t *testing.T) {
	svc, _, _, notifier, clk := newReminderServiceForTest(t)

	notifier.assignments = []models.Assignment{
		{ID: "hw", Title: "Worksheet", Subject: "Maths", LastSubmitDate: "2026-09-03", NotificationTime: "09:00"},
	}
	require.NoError(t, svc.ScheduleAssignmentReminders(context.Background()))
	svc.ScheduleActivityReminders([]models.Activity{
		{ID: "a2", Time: "07:00", Name: "Travel Time"},
	}, clk.Now())

	require.Equal(t, 1, svc.PendingCount(KindActivity))
	require.Equal(t, 1, svc.PendingCount(KindAssignment))

	svc.ScheduleActivityReminders(nil, clk.Now())
	assert.Equal(t, 0, svc.PendingCount(KindActivity))
	assert.Equal(t, 1, svc.PendingCount(KindAssignment))
}

func TestAssignmentRemindersSkipPassedTimes(t *testing.T) {
	svc, queue, _, notifier, clk := newReminderServiceForTest(t)

	notifier.assignments = []models.Assignment{
		{ID: "early", Title: "Early", Subject: "Maths", LastSubmitDate: "2026-09-02", NotificationTime: "05:30"},
		{ID: "later", Title: "Later", Subject: "Maths", LastSubmitDate: "2026-09-02", NotificationTime: "09:00"},
	}
	require.NoError(t, svc.ScheduleAssignmentReminders(context.Background()))

	assert.Equal(t, 1, svc.PendingCount(KindAssignment))

	clk.Advance(3 * time.Hour)
	delivered := queue.delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, "later", delivered[0].ID)
	assert.Equal(t, string(KindAssignment), delivered[0].Type)
}

func TestCancelAll(t *testing.T) {
	svc, queue, _, notifier, clk := newReminderServiceForTest(t)

	notifier.assignments = []models.Assignment{
		{ID: "hw", Title: "Worksheet", Subject: "Maths", LastSubmitDate: "2026-09-03", NotificationTime: "09:00"},
	}
	require.NoError(t, svc.ScheduleAssignmentReminders(context.Background()))
	svc.ScheduleActivityReminders([]models.Activity{
		{ID: "a2", Time: "07:00", Name: "Travel Time"},
	}, clk.Now())

	svc.CancelAll()
	assert.Empty(t, svc.Pending())

	clk.Advance(6 * time.Hour)
	assert.Empty(t, queue.delivered())
}

func TestRefreshTodayRegistersBothKinds(t *testing.T) {
	svc, _, resolver, notifier, _ := newReminderServiceForTest(t)

	resolver.schedule = models.DaySchedule{
		Type: models.DayTypeOn,
		Activities: []models.Activity{
			{ID: "a2", Time: "07:00", Name: "Travel Time"},
			{ID: "a3", Time: "20:00", Name: "Revision"},
		},
	}
	notifier.assignments = []models.Assignment{
		{ID: "hw", Title: "Worksheet", Subject: "Maths", LastSubmitDate: "2026-09-03", NotificationTime: "09:00"},
	}

	require.NoError(t, svc.RefreshToday(context.Background()))

	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, 2, svc.PendingCount(KindActivity))
	assert.Equal(t, 1, svc.PendingCount(KindAssignment))
}

// dispatchedClock models the runtime gap time.AfterFunc leaves open: its
// timers report Stop() == false, as if the callback had already been
// handed to a goroutine, and the test runs the captured callbacks itself.
type dispatchedClock struct {
	now       time.Time
	callbacks []func()
}

func (c *dispatchedClock) Now() time.Time { return c.now }

func (c *dispatchedClock) AfterFunc(_ time.Duration, f func()) clock.Timer {
	c.callbacks = append(c.callbacks, f)
	return dispatchedTimer{}
}

type dispatchedTimer struct{}

func (dispatchedTimer) Stop() bool { return false }

func TestInFlightCallbackAfterRescheduleDeliversNothing(t *testing.T) {
	queue := &stubDeliveryQueue{}
	notifier := &stubAssignmentNotifier{}
	clk := &dispatchedClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)}
	svc := NewReminderService(clk, queue, &stubTodayResolver{}, notifier, nil)
	ctx := context.Background()

	notifier.assignments = []models.Assignment{
		{ID: "hw", Title: "Worksheet", Subject: "Maths", LastSubmitDate: "2026-09-02", NotificationTime: "09:00"},
	}
	require.NoError(t, svc.ScheduleAssignmentReminders(ctx))
	require.Len(t, clk.callbacks, 1)

	// The notification time moves to 10:00 while the 09:00 callback is
	// already in flight; Stop cannot reach it anymore.
	notifier.assignments[0].NotificationTime = "10:00"
	require.NoError(t, svc.ScheduleAssignmentReminders(ctx))
	require.Len(t, clk.callbacks, 2)

	clk.callbacks[0]()
	assert.Empty(t, queue.delivered(), "stale callback must not deliver the rescheduled trigger")
	assert.Equal(t, 1, svc.PendingCount(KindAssignment))

	clk.callbacks[1]()
	delivered := queue.delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, "hw", delivered[0].ID)
	assert.Equal(t, 0, svc.PendingCount(KindAssignment))
}

func TestObserverSeesLifecycle(t *testing.T) {
	svc, _, _, _, clk := newReminderServiceForTest(t)

	type event struct {
		name string
		kind ReminderKind
	}
	var events []event
	svc.SetObserver(func(name string, kind ReminderKind) {
		events = append(events, event{name, kind})
	})

	svc.ScheduleActivityReminders([]models.Activity{
		{ID: "a2", Time: "07:00", Name: "Travel Time"},
	}, clk.Now())
	svc.ScheduleActivityReminders([]models.Activity{
		{ID: "a3", Time: "08:00", Name: "Classes Time"},
	}, clk.Now())
	clk.Advance(2 * time.Hour)

	assert.Equal(t, []event{
		{"scheduled", KindActivity},
		{"cancelled", KindActivity},
		{"scheduled", KindActivity},
		{"fired", KindActivity},
	}, events)
}
