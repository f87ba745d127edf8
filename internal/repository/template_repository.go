package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/habit-alert-api/internal/models"
)

// TemplateRepository stores custom schedule template overrides, one entry
// list per day type.
type TemplateRepository struct {
	store BlobStore
	mu    sync.Mutex
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(store BlobStore) *TemplateRepository {
	return &TemplateRepository{store: store}
}

// Get returns all stored overrides. Day types without an override are
// absent from the map.
func (r *TemplateRepository) Get(ctx context.Context) (models.CustomTemplates, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(ctx)
}

// GetByType returns the override for one day type, or nil when the
// built-in default applies.
func (r *TemplateRepository) GetByType(ctx context.Context, dayType models.DayType) ([]models.TemplateEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	templates, err := r.getLocked(ctx)
	if err != nil {
		return nil, err
	}
	return templates[dayType], nil
}

// Save replaces the override for one day type.
func (r *TemplateRepository) Save(ctx context.Context, dayType models.DayType, entries []models.TemplateEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	templates, err := r.getLocked(ctx)
	if err != nil {
		return err
	}
	templates[dayType] = entries

	return saveCollection(ctx, r.store, NamespaceTemplates, templates)
}

// DeleteAll drops every override.
func (r *TemplateRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(ctx, NamespaceTemplates)
}

func (r *TemplateRepository) getLocked(ctx context.Context) (models.CustomTemplates, error) {
	templates := models.CustomTemplates{}
	if err := loadCollection(ctx, r.store, NamespaceTemplates, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}
