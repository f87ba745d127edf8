package models

import "time"

// Priority ranks an assignment's importance.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether the priority is a known value.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Assignment is a deadline-bound task tracked independently of the day
// schedules.
type Assignment struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Subject          string     `json:"subject"`
	Description      string     `json:"description,omitempty"`
	LastSubmitDate   string     `json:"last_submit_date"`
	IsCompleted      bool       `json:"is_completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	NotificationTime string     `json:"notification_time,omitempty"`
	Priority         Priority   `json:"priority"`
	CreatedAt        time.Time  `json:"created_at"`
}

// AssignmentStats aggregates counts over the assignment collection.
type AssignmentStats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	Completed      int `json:"completed"`
	Overdue        int `json:"overdue"`
	Urgent         int `json:"urgent"`
	CompletionRate int `json:"completion_rate"`
}
