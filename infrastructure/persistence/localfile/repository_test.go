package localfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ideaflow-backend/domain/idea"
	"ideaflow-backend/pkg/errors"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return repo
}

// Timestamps are stored at second precision, so fixtures use whole seconds.
func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func sampleIdea(id string, createdAt time.Time) idea.Idea {
	return idea.Idea{
		ID:          id,
		Title:       "Sample " + id,
		Description: "A sample idea",
		Category:    idea.CategoryTechnicalConcepts,
		Priority:    idea.PriorityHigh,
		Status:      idea.StatusNew,
		Tags:        []string{"sample"},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestRepository_MissingBlobReadsEmpty(t *testing.T) {
	repo := newTestRepo(t)

	list, err := repo.ListByOwner(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_InsertRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	reminder := at(18, 0)
	it := sampleIdea("a", at(9, 0))
	it.ReminderDate = &reminder
	it.Resources = []idea.Resource{{
		ID:        "r1",
		Type:      idea.ResourceLink,
		Title:     "reference",
		URL:       "https://example.com",
		CreatedAt: at(9, 0),
	}}

	require.NoError(t, repo.Insert(ctx, "user-1", it))

	list, err := repo.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, it, list[0])
}

func TestRepository_ListOrdersByCreationDescending(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Inserted out of creation order on purpose.
	require.NoError(t, repo.Insert(ctx, "user-1", sampleIdea("middle", at(10, 0))))
	require.NoError(t, repo.Insert(ctx, "user-1", sampleIdea("newest", at(11, 0))))
	require.NoError(t, repo.Insert(ctx, "user-1", sampleIdea("oldest", at(9, 0))))

	list, err := repo.ListByOwner(ctx, "user-1")

	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "newest", list[0].ID)
	assert.Equal(t, "middle", list[1].ID)
	assert.Equal(t, "oldest", list[2].ID)
}

func TestRepository_OwnersAreIsolated(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "alice", sampleIdea("a", at(9, 0))))

	list, err := repo.ListByOwner(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_UpdateReplacesRecord(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	it := sampleIdea("a", at(9, 0))
	require.NoError(t, repo.Insert(ctx, "user-1", it))

	it.Title = "Renamed"
	it.Status = idea.StatusCompleted
	it.Resources = []idea.Resource{{
		ID:        "r1",
		Type:      idea.ResourceNote,
		Title:     "outcome",
		Content:   "shipped",
		CreatedAt: at(10, 0),
	}}
	it.UpdatedAt = at(10, 0)

	require.NoError(t, repo.Update(ctx, "user-1", it, true))

	list, err := repo.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, it, list[0])
}

func TestRepository_UpdateUnknownIdeaIsNotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Update(context.Background(), "user-1", sampleIdea("ghost", at(9, 0)), false)

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRepository_DeleteRemovesIdeaAndResources(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	it := sampleIdea("a", at(9, 0))
	it.Resources = []idea.Resource{{ID: "r1", Type: idea.ResourceNote, Title: "n", CreatedAt: at(9, 0)}}
	require.NoError(t, repo.Insert(ctx, "user-1", it))
	require.NoError(t, repo.Insert(ctx, "user-1", sampleIdea("b", at(10, 0))))

	require.NoError(t, repo.Delete(ctx, "user-1", "a"))

	list, err := repo.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestRepository_DeleteUnknownIdeaIsNotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Delete(context.Background(), "user-1", "ghost")

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRepository_CorruptBlobReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	repo, err := New(dir, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "user-1.json"), []byte("{not json"), 0o644))

	list, err := repo.ListByOwner(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_InvalidEnumInBlobIsRejected(t *testing.T) {
	dir := t.TempDir()
	repo, err := New(dir, zap.NewNop())
	require.NoError(t, err)

	// Well-formed JSON whose status is not a known member.
	blob := `[{
		"id": "a",
		"title": "t",
		"description": "",
		"category": "other",
		"priority": "high",
		"status": "someday",
		"tags": [],
		"resources": [],
		"createdAt": "2026-09-01T09:00:00Z",
		"updatedAt": "2026-09-01T09:00:00Z"
	}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user-1.json"), []byte(blob), 0o644))

	_, err = repo.ListByOwner(context.Background(), "user-1")

	require.Error(t, err)
	assert.True(t, errors.IsUnknown(err))
}

func TestRepository_CancelledContextIsRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListByOwner(ctx, "user-1")

	assert.ErrorIs(t, err, context.Canceled)
}
