package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/habit-alert-api/internal/models"
	"github.com/noah-isme/habit-alert-api/pkg/clock"
	appErrors "github.com/noah-isme/habit-alert-api/pkg/errors"
	"github.com/noah-isme/habit-alert-api/pkg/export"
)

type assignmentRepository interface {
	List(ctx context.Context) ([]models.Assignment, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	Upsert(ctx context.Context, assignment models.Assignment) error
	Delete(ctx context.Context, id string) error
}

// Assignment views selectable on list reads.
const (
	ViewAll       = ""
	ViewPending   = "pending"
	ViewCompleted = "completed"
	ViewOverdue   = "overdue"
	ViewUrgent    = "urgent"
)

// CreateAssignmentRequest describes payload for creating an assignment.
type CreateAssignmentRequest struct {
	Title            string          `json:"title" validate:"required"`
	Subject          string          `json:"subject" validate:"required"`
	Description      string          `json:"description"`
	LastSubmitDate   string          `json:"last_submit_date" validate:"required"`
	NotificationTime string          `json:"notification_time"`
	Priority         models.Priority `json:"priority" validate:"required"`
}

// UpdateAssignmentRequest replaces an assignment's editable fields.
type UpdateAssignmentRequest struct {
	Title            string          `json:"title" validate:"required"`
	Subject          string          `json:"subject" validate:"required"`
	Description      string          `json:"description"`
	LastSubmitDate   string          `json:"last_submit_date" validate:"required"`
	NotificationTime string          `json:"notification_time"`
	Priority         models.Priority `json:"priority" validate:"required"`
}

// AssignmentService owns assignment CRUD and the derived views. Views are
// computed on read; nothing is indexed or cached.
type AssignmentService struct {
	repo      assignmentRepository
	clk       clock.Clock
	validator *validator.Validate
	logger    *zap.Logger
	onChange  func()
}

// NewAssignmentService instantiates AssignmentService.
func NewAssignmentService(repo assignmentRepository, clk clock.Clock, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if clk == nil {
		clk = clock.New()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, clk: clk, validator: validate, logger: logger}
}

// SetChangeListener registers a hook invoked after any mutation, so the
// reminder engine can recompute assignment triggers.
func (s *AssignmentService) SetChangeListener(fn func()) {
	s.onChange = fn
}

// Create validates and stores a new assignment.
func (s *AssignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (models.Assignment, error) {
	if err := s.validateRequest(req.LastSubmitDate, req.NotificationTime, req.Priority, req); err != nil {
		return models.Assignment{}, err
	}

	assignment := models.Assignment{
		ID:               uuid.NewString(),
		Title:            req.Title,
		Subject:          req.Subject,
		Description:      req.Description,
		LastSubmitDate:   req.LastSubmitDate,
		NotificationTime: req.NotificationTime,
		Priority:         req.Priority,
		CreatedAt:        s.clk.Now(),
	}
	if err := s.repo.Upsert(ctx, assignment); err != nil {
		return models.Assignment{}, err
	}
	s.logger.Sugar().Infow("assignment created", "id", assignment.ID, "due", assignment.LastSubmitDate)
	s.notifyChange()

	return assignment, nil
}

// Update fully replaces an existing assignment's editable fields.
func (s *AssignmentService) Update(ctx context.Context, id string, req UpdateAssignmentRequest) (models.Assignment, error) {
	if err := s.validateRequest(req.LastSubmitDate, req.NotificationTime, req.Priority, req); err != nil {
		return models.Assignment{}, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Assignment{}, err
	}

	existing.Title = req.Title
	existing.Subject = req.Subject
	existing.Description = req.Description
	existing.LastSubmitDate = req.LastSubmitDate
	existing.NotificationTime = req.NotificationTime
	existing.Priority = req.Priority

	if err := s.repo.Upsert(ctx, *existing); err != nil {
		return models.Assignment{}, err
	}
	s.notifyChange()

	return *existing, nil
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifyChange()
	return nil
}

// Complete marks an assignment done, stamping the completion instant.
func (s *AssignmentService) Complete(ctx context.Context, id string) (models.Assignment, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Assignment{}, err
	}

	now := s.clk.Now()
	existing.IsCompleted = true
	existing.CompletedAt = &now

	if err := s.repo.Upsert(ctx, *existing); err != nil {
		return models.Assignment{}, err
	}
	s.notifyChange()

	return *existing, nil
}

// List returns assignments for a view in display order: incomplete before
// complete, each group ascending by deadline.
func (s *AssignmentService) List(ctx context.Context, view string) ([]models.Assignment, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var filtered []models.Assignment
	switch view {
	case ViewAll:
		filtered = all
	case ViewPending:
		filtered = filterAssignments(all, func(a models.Assignment) bool { return !a.IsCompleted })
	case ViewCompleted:
		filtered = filterAssignments(all, func(a models.Assignment) bool { return a.IsCompleted })
	case ViewOverdue:
		filtered = s.overdue(all)
	case ViewUrgent:
		filtered = s.urgent(all)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown view %q", view))
	}

	sortForDisplay(filtered)
	return filtered, nil
}

// WithNotificationToday returns pending assignments that have a
// notification time configured.
func (s *AssignmentService) WithNotificationToday(ctx context.Context) ([]models.Assignment, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterAssignments(all, func(a models.Assignment) bool {
		return !a.IsCompleted && a.NotificationTime != ""
	}), nil
}

// Stats aggregates counts over the whole collection.
func (s *AssignmentService) Stats(ctx context.Context) (models.AssignmentStats, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return models.AssignmentStats{}, err
	}

	stats := models.AssignmentStats{Total: len(all)}
	for _, a := range all {
		if a.IsCompleted {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}
	stats.Overdue = len(s.overdue(all))
	stats.Urgent = len(s.urgent(all))
	if stats.Total > 0 {
		stats.CompletionRate = int(float64(stats.Completed)/float64(stats.Total)*100 + 0.5)
	}
	return stats, nil
}

// Export renders the full collection as csv or pdf.
func (s *AssignmentService) Export(ctx context.Context, format string) ([]byte, string, error) {
	all, err := s.List(ctx, ViewAll)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"Title", "Subject", "Due", "Priority", "Status"},
	}
	for _, a := range all {
		status := "pending"
		if a.IsCompleted {
			status = "completed"
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Title":    a.Title,
			"Subject":  a.Subject,
			"Due":      a.LastSubmitDate,
			"Priority": string(a.Priority),
			"Status":   status,
		})
	}

	switch format {
	case "csv", "":
		payload, err := export.NewCSVExporter().Render(dataset)
		return payload, "text/csv", err
	case "pdf":
		payload, err := export.NewPDFExporter().Render(dataset, "Assignments")
		return payload, "application/pdf", err
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown export format %q", format))
	}
}

func (s *AssignmentService) overdue(all []models.Assignment) []models.Assignment {
	now := s.clk.Now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(999*time.Millisecond), now.Location())
	return filterAssignments(all, func(a models.Assignment) bool {
		if a.IsCompleted {
			return false
		}
		deadline, err := time.ParseInLocation("2006-01-02", a.LastSubmitDate, now.Location())
		if err != nil {
			return false
		}
		return deadline.Before(endOfToday)
	})
}

func (s *AssignmentService) urgent(all []models.Assignment) []models.Assignment {
	now := s.clk.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowEnd := startOfToday.AddDate(0, 0, 2)
	return filterAssignments(all, func(a models.Assignment) bool {
		if a.IsCompleted {
			return false
		}
		deadline, err := time.ParseInLocation("2006-01-02", a.LastSubmitDate, now.Location())
		if err != nil {
			return false
		}
		return !deadline.Before(startOfToday) && !deadline.After(windowEnd)
	})
}

func (s *AssignmentService) validateRequest(due, notificationTime string, priority models.Priority, req interface{}) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title, subject, due date and priority are required")
	}
	if !priority.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "priority must be high, medium or low")
	}
	if _, err := time.Parse("2006-01-02", due); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "last_submit_date must be YYYY-MM-DD")
	}
	if notificationTime != "" && !validClockTime(notificationTime) {
		return appErrors.Clone(appErrors.ErrValidation, "notification_time must be HH:MM in 24-hour format")
	}
	return nil
}

func (s *AssignmentService) notifyChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

func filterAssignments(all []models.Assignment, keep func(models.Assignment) bool) []models.Assignment {
	out := make([]models.Assignment, 0, len(all))
	for _, a := range all {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func sortForDisplay(assignments []models.Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		if assignments[i].IsCompleted != assignments[j].IsCompleted {
			return !assignments[i].IsCompleted
		}
		return assignments[i].LastSubmitDate < assignments[j].LastSubmitDate
	})
}
