package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/habit-alert-api/internal/models"
	"github.com/noah-isme/habit-alert-api/pkg/clock"
	appErrors "github.com/noah-isme/habit-alert-api/pkg/errors"
)

type stubScheduleRepo struct {
	schedules map[string]models.DaySchedule
	upserts   int
}

func newStubScheduleRepo() *stubScheduleRepo {
	return &stubScheduleRepo{schedules: map[string]models.DaySchedule{}}
}

func (r *stubScheduleRepo) FindByDate(_ context.Context, date string) (*models.DaySchedule, error) {
	s, ok := r.schedules[date]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *stubScheduleRepo) Upsert(_ context.Context, schedule models.DaySchedule) error {
	r.schedules[schedule.Date] = schedule
	r.upserts++
	return nil
}

func (r *stubScheduleRepo) DeleteAll(_ context.Context) error {
	r.schedules = map[string]models.DaySchedule{}
	return nil
}

type stubTemplateRepo struct {
	templates models.CustomTemplates
}

func newStubTemplateRepo() *stubTemplateRepo {
	return &stubTemplateRepo{templates: models.CustomTemplates{}}
}

func (r *stubTemplateRepo) Get(_ context.Context) (models.CustomTemplates, error) {
	return r.templates, nil
}

func (r *stubTemplateRepo) GetByType(_ context.Context, dayType models.DayType) ([]models.TemplateEntry, error) {
	return r.templates[dayType], nil
}

func (r *stubTemplateRepo) Save(_ context.Context, dayType models.DayType, entries []models.TemplateEntry) error {
	r.templates[dayType] = entries
	return nil
}

func (r *stubTemplateRepo) DeleteAll(_ context.Context) error {
	r.templates = models.CustomTemplates{}
	return nil
}

func newScheduleServiceForTest(t *testing.T) (*ScheduleService, *stubScheduleRepo, *stubTemplateRepo, *clock.Manual) {
	t.Helper()
	schedules := newStubScheduleRepo()
	templates := newStubTemplateRepo()
	clk := clock.NewManual(time.Date(2026, 9, 1, 6, 0, 0, 0, time.Local))
	svc := NewScheduleService(schedules, templates, clk, nil, nil)
	return svc, schedules, templates, clk
}

func TestResolveMaterializesWeekendAsOffday(t *testing.T) {
	svc, _, _, _ := newScheduleServiceForTest(t)

	// 2026-09-05 is a Saturday.
	schedule, err := svc.Resolve(context.Background(), "2026-09-05")
	require.NoError(t, err)

	assert.Equal(t, models.DayTypeOff, schedule.Type)
	require.Len(t, schedule.Activities, len(models.DefaultTemplates[models.DayTypeOff]))
	assert.Equal(t, "2026-09-05_0", schedule.Activities[0].ID)
	assert.Equal(t, "05:00", schedule.Activities[0].Time)
	assert.Equal(t, "Meditation & Walking", schedule.Activities[0].Name)
	assert.Equal(t, "2026-09-05_9", schedule.Activities[9].ID)
	assert.Equal(t, "Bed Time", schedule.Activities[9].Name)
}

func TestResolveWeekdayUsesOndayTemplate(t *testing.T) {
	svc, _, _, _ := newScheduleServiceForTest(t)

	schedule, err := svc.Resolve(context.Background(), "2026-09-01")
	require.NoError(t, err)

	assert.Equal(t, models.DayTypeOn, schedule.Type)
	assert.Equal(t, "Meditation & Wake", schedule.Activities[0].Name)
}

func TestResolveIsIdempotent(t *testing.T) {
	svc, schedules, _, _ := newScheduleServiceForTest(t)

	first, err := svc.Resolve(context.Background(), "2026-09-01")
	require.NoError(t, err)
	require.Equal(t, 1, schedules.upserts)

	second, err := svc.Resolve(context.Background(), "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, schedules.upserts, "repeated resolve must not rewrite the stored day")
}

func TestResolveRejectsMalformedDate(t *testing.T) {
	svc, _, _, _ := newScheduleServiceForTest(t)

	_, err := svc.Resolve(context.Background(), "01-09-2026")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTemplateEditsAreNotRetroactive(t *testing.T) {
	svc, _, _, _ := newScheduleServiceForTest(t)
	ctx := context.Background()

	before, err := svc.Resolve(ctx, "2026-09-01")
	require.NoError(t, err)

	err = svc.SaveTemplate(ctx, models.DayTypeOn, SaveTemplateRequest{
		Entries: []TemplateEntryRequest{{Time: "09:00", Name: "Deep Work"}},
	})
	require.NoError(t, err)

	// Already materialized day keeps its original activities.
	after, err := svc.Resolve(ctx, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// A fresh day picks up the new template.
	fresh, err := svc.Resolve(ctx, "2026-09-02")
	require.NoError(t, err)
	require.Len(t, fresh.Activities, 1)
	assert.Equal(t, "Deep Work", fresh.Activities[0].Name)
}

func TestToggleActivityIsAnInvolution(t *testing.T) {
	svc, _, _, _ := newScheduleServiceForTest(t)
	ctx := context.Background()

	schedule, err := svc.Resolve(ctx, "2026-09-01")
	require.NoError(t, err)
	id := schedule.Activities[0].ID

	toggled, err := svc.ToggleActivity(ctx, "2026-09-01", id)
	require.NoError(t, err)
	assert.True(t, toggled.Activities[0].Completed)
	require.NotNil(t, toggled.Activities[0].CompletedAt)

	back, err := svc.ToggleActivity(ctx, "2026-09-01", id)
	require.NoError(t, err)
	assert.False(t, back.Activities[0].Completed)
	assert.Nil(t, back.Activities[0].CompletedAt)
}

func TestToggleUnknownActivity(t *testing.T) {
	svc, _, _, _ := newScheduleServiceForTest(t)

	_, err := svc.ToggleActivity(context.Background(), "2026-09-01", "2026-09-01_999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAddActivityKeepsTimeOrder(t *testing.T) {
	svc, _, _, _ := newScheduleServiceForTest(t)
	ctx := context.Background()

	schedule, err := svc.AddActivity(ctx, "2026-09-01", AddActivityRequest{Time: "06:30", Name: "Stretching"})
	require.NoError(t, err)

	require.Len(t, schedule.Activities, 11)
	assert.Equal(t, "Ready for Coaching", schedule.Activities[1].Name)
	assert.Equal(t, "Stretching", schedule.Activities[2].Name)
	assert.Equal(t, "Travel Time", schedule.Activities[3].Name)
}

func TestAddActivityStableOnEqualTimes(t *testing.T) {
	svc, _, _, _ := newScheduleServiceForTest(t)
	ctx := context.Background()

	_, err := svc.AddActivity(ctx, "2026-09-01", AddActivityRequest{Time: "06:00", Name: "First Extra"})
	require.NoError(t, err)
	schedule, err := svc.AddActivity(ctx, "2026-09-01", AddActivityRequest{Time: "06:00", Name: "Second Extra"})
	require.NoError(t, err)

	// Template entry first, then additions in insertion order.
	assert.Equal(t, "Ready for Coaching", schedule.Activities[1].Name)
	assert.Equal(t, "First Extra", schedule.Activities[2].Name)
	assert.Equal(t, "Second Extra", schedule.Activities[3].Name)
}

func TestAddActivityValidation(t *testing.T) {
	svc, _, _, _ := newScheduleServiceForTest(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  AddActivityRequest
	}{
		{"missing name", AddActivityRequest{Time: "06:30"}},
		{"missing time", AddActivityRequest{Name: "Stretching"}},
		{"unpadded hour", AddActivityRequest{Time: "6:30", Name: "Stretching"}},
		{"out of range", AddActivityRequest{Time: "25:00", Name: "Stretching"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddActivity(ctx, "2026-09-01", tc.req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestCompletionStats(t *testing.T) {
	svc, _, _, _ := newScheduleServiceForTest(t)
	ctx := context.Background()

	schedule, err := svc.Resolve(ctx, "2026-09-01")
	require.NoError(t, err)

	for _, a := range schedule.Activities[:3] {
		_, err := svc.ToggleActivity(ctx, "2026-09-01", a.ID)
		require.NoError(t, err)
	}

	stats, err := svc.CompletionStats(ctx, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, models.CompletionStats{Completed: 3, Total: 10, Percentage: 30}, stats)
}

func TestTemplatesMergedView(t *testing.T) {
	svc, _, templates, _ := newScheduleServiceForTest(t)
	ctx := context.Background()

	templates.templates[models.DayTypeOn] = []models.TemplateEntry{{Time: "08:00", Name: "Custom Start"}}

	merged, err := svc.Templates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.TemplateEntry{{Time: "08:00", Name: "Custom Start"}}, merged[models.DayTypeOn])
	assert.Equal(t, models.DefaultTemplates[models.DayTypeOff], merged[models.DayTypeOff])
}

func TestSaveTemplateSortsEntries(t *testing.T) {
	svc, _, templates, _ := newScheduleServiceForTest(t)

	err := svc.SaveTemplate(context.Background(), models.DayTypeOff, SaveTemplateRequest{
		Entries: []TemplateEntryRequest{
			{Time: "12:00", Name: "Lunch"},
			{Time: "07:00", Name: "Run"},
		},
	})
	require.NoError(t, err)

	saved := templates.templates[models.DayTypeOff]
	require.Len(t, saved, 2)
	assert.Equal(t, "Run", saved[0].Name)
	assert.Equal(t, "Lunch", saved[1].Name)
}

func TestSaveTemplateRejectsUnknownDayType(t *testing.T) {
	svc, _, _, _ := newScheduleServiceForTest(t)

	err := svc.SaveTemplate(context.Background(), models.DayType("holiday"), SaveTemplateRequest{
		Entries: []TemplateEntryRequest{{Time: "07:00", Name: "Run"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestResetTemplateRestoresDefaults(t *testing.T) {
	svc, _, templates, _ := newScheduleServiceForTest(t)
	ctx := context.Background()

	templates.templates[models.DayTypeOn] = []models.TemplateEntry{{Time: "08:00", Name: "Custom"}}

	require.NoError(t, svc.ResetTemplate(ctx, models.DayTypeOn))
	assert.Equal(t, models.DefaultTemplates[models.DayTypeOn], templates.templates[models.DayTypeOn])
}

func TestChangeListenerFiresOnlyForToday(t *testing.T) {
	svc, _, _, _ := newScheduleServiceForTest(t)
	ctx := context.Background()

	var fired []string
	svc.SetChangeListener(func(s models.DaySchedule) { fired = append(fired, s.Date) })

	today, err := svc.Resolve(ctx, "2026-09-01")
	require.NoError(t, err)
	_, err = svc.ToggleActivity(ctx, "2026-09-01", today.Activities[0].ID)
	require.NoError(t, err)

	other, err := svc.Resolve(ctx, "2026-09-02")
	require.NoError(t, err)
	_, err = svc.ToggleActivity(ctx, "2026-09-02", other.Activities[0].ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-09-01"}, fired)
}

func TestClearSchedulesForcesRematerialization(t *testing.T) {
	svc, schedules, _, _ := newScheduleServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "2026-09-01")
	require.NoError(t, err)
	require.Len(t, schedules.schedules, 1)

	require.NoError(t, svc.ClearSchedules(ctx))
	assert.Empty(t, schedules.schedules)
}
