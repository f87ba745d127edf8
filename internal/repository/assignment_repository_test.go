package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/habit-alert-api/internal/models"
	appErrors "github.com/noah-isme/habit-alert-api/pkg/errors"
)

func TestAssignmentRepositoryUpsertAndFind(t *testing.T) {
	repo := NewAssignmentRepository(newMemoryStore())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.Assignment{ID: "a-1", Title: "Physics worksheet"}))

	found, err := repo.FindByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "Physics worksheet", found.Title)

	found.Title = "Physics worksheet v2"
	require.NoError(t, repo.Upsert(ctx, *found))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Physics worksheet v2", all[0].Title)
}

func TestAssignmentRepositoryFindMissing(t *testing.T) {
	repo := NewAssignmentRepository(newMemoryStore())

	_, err := repo.FindByID(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignmentRepositoryDelete(t *testing.T) {
	repo := NewAssignmentRepository(newMemoryStore())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.Assignment{ID: "a-1"}))
	require.NoError(t, repo.Upsert(ctx, models.Assignment{ID: "a-2"}))
	require.NoError(t, repo.Delete(ctx, "a-1"))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a-2", all[0].ID)

	err = repo.Delete(ctx, "a-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
