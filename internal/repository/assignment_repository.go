package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/habit-alert-api/internal/models"
	appErrors "github.com/noah-isme/habit-alert-api/pkg/errors"
)

// AssignmentRepository provides persistence for assignments.
type AssignmentRepository struct {
	store BlobStore
	mu    sync.Mutex
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(store BlobStore) *AssignmentRepository {
	return &AssignmentRepository{store: store}
}

// List returns every stored assignment.
func (r *AssignmentRepository) List(ctx context.Context) ([]models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(ctx)
}

// FindByID loads one assignment by id.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	assignments, err := r.listLocked(ctx)
	if err != nil {
		return nil, err
	}
	for i := range assignments {
		if assignments[i].ID == id {
			return &assignments[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
}

// Upsert replaces the assignment with a matching id or appends it.
func (r *AssignmentRepository) Upsert(ctx context.Context, assignment models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	assignments, err := r.listLocked(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range assignments {
		if assignments[i].ID == assignment.ID {
			assignments[i] = assignment
			replaced = true
			break
		}
	}
	if !replaced {
		assignments = append(assignments, assignment)
	}

	return saveCollection(ctx, r.store, NamespaceAssignments, assignments)
}

// Delete removes an assignment by id.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	assignments, err := r.listLocked(ctx)
	if err != nil {
		return err
	}

	filtered := assignments[:0]
	found := false
	for _, a := range assignments {
		if a.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, a)
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}

	return saveCollection(ctx, r.store, NamespaceAssignments, filtered)
}

// DeleteAll drops the whole assignment collection.
func (r *AssignmentRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(ctx, NamespaceAssignments)
}

func (r *AssignmentRepository) listLocked(ctx context.Context) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := loadCollection(ctx, r.store, NamespaceAssignments, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}
