package models

import "time"

// DayType classifies a calendar day against the two built-in templates.
type DayType string

const (
	DayTypeOn  DayType = "onday"
	DayTypeOff DayType = "offday"
)

// Valid reports whether the day type is one of the two known values.
func (t DayType) Valid() bool {
	return t == DayTypeOn || t == DayTypeOff
}

// Activity is a single time-boxed slot within a day schedule.
type Activity struct {
	ID          string     `json:"id"`
	Time        string     `json:"time"`
	Name        string     `json:"name"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// DaySchedule holds all activities materialized for one calendar date.
// The date string (YYYY-MM-DD) is the natural key.
type DaySchedule struct {
	Date       string     `json:"date"`
	Type       DayType    `json:"type"`
	Activities []Activity `json:"activities"`
}

// TemplateEntry is one slot of a schedule template.
type TemplateEntry struct {
	Time string `json:"time"`
	Name string `json:"name"`
}

// CustomTemplates stores per-day-type template overrides. A missing key
// means the built-in default applies.
type CustomTemplates map[DayType][]TemplateEntry

// CompletionStats summarises progress through one day's activities.
type CompletionStats struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// DefaultTemplates are the built-in slot lists applied when no custom
// template exists for the day type.
var DefaultTemplates = map[DayType][]TemplateEntry{
	DayTypeOn: {
		{Time: "05:00", Name: "Meditation & Wake"},
		{Time: "06:00", Name: "Ready for Coaching"},
		{Time: "07:00", Name: "Travel Time"},
		{Time: "07:56", Name: "Classes Time"},
		{Time: "14:30", Name: "Travel Time"},
		{Time: "15:30", Name: "Reached Home"},
		{Time: "17:00", Name: "Practice Time"},
		{Time: "20:00", Name: "Revision"},
		{Time: "21:00", Name: "Code World"},
		{Time: "22:30", Name: "Bedtime"},
	},
	DayTypeOff: {
		{Time: "05:00", Name: "Meditation & Walking"},
		{Time: "06:00", Name: "Take Bath & Ready"},
		{Time: "07:00", Name: "Learning English"},
		{Time: "09:00", Name: "Learning I.P"},
		{Time: "11:00", Name: "Revision"},
		{Time: "13:00", Name: "Break Time"},
		{Time: "15:00", Name: "Practice Questions"},
		{Time: "18:00", Name: "Backlog Time"},
		{Time: "19:00", Name: "Code World"},
		{Time: "21:30", Name: "Bed Time"},
	},
}

// DateKey formats a timestamp as the schedule's calendar-date key in the
// local calendar day.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ClassifyDate maps weekends to offday and weekdays to onday.
func ClassifyDate(t time.Time) DayType {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return DayTypeOff
	default:
		return DayTypeOn
	}
}
