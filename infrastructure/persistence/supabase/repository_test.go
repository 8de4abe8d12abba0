package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ideaflow-backend/domain/idea"
	"ideaflow-backend/pkg/errors"
)

// stubBackend fakes the PostgREST surface the repository talks to.
// Per-endpoint statuses are switchable so failure paths can be driven.
type stubBackend struct {
	mu       sync.Mutex
	requests []string

	ideaInsertStatus     int
	resourceInsertStatus int
	ideaDeleteStatus     int

	ideaListBody     string
	resourceListBody string
	ideaWriteBody    string
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		ideaInsertStatus:     http.StatusCreated,
		resourceInsertStatus: http.StatusCreated,
		ideaDeleteStatus:     http.StatusNoContent,
		ideaListBody:         "[]",
		resourceListBody:     "[]",
		ideaWriteBody:        "[]",
	}
}

func (s *stubBackend) record(r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path+"?"+r.URL.RawQuery)
	s.mu.Unlock()
}

func (s *stubBackend) saw(method, path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := method + " " + path + "?"
	for _, req := range s.requests {
		if strings.HasPrefix(req, prefix) {
			return req, true
		}
	}
	return "", false
}

func (s *stubBackend) handler() http.HandlerFunc {
	respond := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 400 {
			w.Write([]byte(`{"message":"stubbed failure"}`))
			return
		}
		w.Write([]byte(body))
	}

	return func(w http.ResponseWriter, r *http.Request) {
		s.record(r)

		switch {
		case r.URL.Path == "/rest/v1/ideas" && r.Method == http.MethodGet:
			respond(w, http.StatusOK, s.ideaListBody)
		case r.URL.Path == "/rest/v1/ideas" && r.Method == http.MethodPost:
			respond(w, s.ideaInsertStatus, "[]")
		case r.URL.Path == "/rest/v1/ideas" && r.Method == http.MethodPatch:
			respond(w, http.StatusOK, s.ideaWriteBody)
		case r.URL.Path == "/rest/v1/ideas" && r.Method == http.MethodDelete:
			respond(w, s.ideaDeleteStatus, s.ideaWriteBody)
		case r.URL.Path == "/rest/v1/idea_resources" && r.Method == http.MethodGet:
			respond(w, http.StatusOK, s.resourceListBody)
		case r.URL.Path == "/rest/v1/idea_resources" && r.Method == http.MethodPost:
			respond(w, s.resourceInsertStatus, "[]")
		case r.URL.Path == "/rest/v1/idea_resources" && r.Method == http.MethodDelete:
			respond(w, http.StatusNoContent, "")
		default:
			respond(w, http.StatusNotFound, "")
		}
	}
}

func newTestRepo(t *testing.T) (*Repository, *stubBackend) {
	t.Helper()

	stub := newStubBackend()
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	repo, err := New(server.URL, "service-key", zap.NewNop())
	require.NoError(t, err)
	return repo, stub
}

func sampleIdea() idea.Idea {
	createdAt := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	return idea.Idea{
		ID:          "6f1f64ab-54d8-4c2d-9a35-0d4c9f3f9a10",
		Title:       "Build a terrarium",
		Description: "Self-contained moss world",
		Category:    idea.CategoryCreativeProjects,
		Priority:    idea.PriorityMedium,
		Status:      idea.StatusNew,
		Tags:        []string{"weekend"},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestRepository_InsertWithoutResources(t *testing.T) {
	repo, stub := newTestRepo(t)

	err := repo.Insert(context.Background(), "user-1", sampleIdea())

	require.NoError(t, err)
	_, sawInsert := stub.saw(http.MethodPost, "/rest/v1/ideas")
	assert.True(t, sawInsert)
	_, sawResourceInsert := stub.saw(http.MethodPost, "/rest/v1/idea_resources")
	assert.False(t, sawResourceInsert)
}

func TestRepository_InsertRollsBackOnResourceFailure(t *testing.T) {
	repo, stub := newTestRepo(t)
	stub.resourceInsertStatus = http.StatusInternalServerError

	it := sampleIdea()
	it.Resources = []idea.Resource{{
		ID:        "r1",
		Type:      idea.ResourceLink,
		Title:     "guide",
		URL:       "https://example.com",
		CreatedAt: it.CreatedAt,
	}}

	err := repo.Insert(context.Background(), "user-1", it)

	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))

	// The idea row written before the failure is deleted again,
	// scoped to both the idea and its owner.
	req, sawDelete := stub.saw(http.MethodDelete, "/rest/v1/ideas")
	require.True(t, sawDelete)
	assert.Contains(t, req, "id=eq."+it.ID)
	assert.Contains(t, req, "user_id=eq.user-1")
}

func TestRepository_InsertReportsFailedRollback(t *testing.T) {
	repo, stub := newTestRepo(t)
	stub.resourceInsertStatus = http.StatusInternalServerError
	stub.ideaDeleteStatus = http.StatusInternalServerError

	it := sampleIdea()
	it.Resources = []idea.Resource{{
		ID:        "r1",
		Type:      idea.ResourceNote,
		Title:     "notes",
		Content:   "text",
		CreatedAt: it.CreatedAt,
	}}

	err := repo.Insert(context.Background(), "user-1", it)

	require.Error(t, err)
	assert.True(t, errors.IsUnknown(err))
	assert.Contains(t, err.Error(), "rollback failed")
}

func TestRepository_ListByOwnerGroupsResources(t *testing.T) {
	repo, stub := newTestRepo(t)
	stub.ideaListBody = `[
		{"id":"a","user_id":"user-1","title":"newest","description":"","category":"other","priority":"high","status":"new","tags":["x"],"reminder_date":null,"created_at":"2026-09-01T10:00:00Z","updated_at":"2026-09-01T10:00:00Z"},
		{"id":"b","user_id":"user-1","title":"oldest","description":"","category":"personal","priority":"low","status":"completed","tags":[],"reminder_date":null,"created_at":"2026-09-01T09:00:00Z","updated_at":"2026-09-01T09:00:00Z"}
	]`
	stub.resourceListBody = `[
		{"id":"r1","idea_id":"a","type":"link","title":"guide","url":"https://example.com","content":null,"created_at":"2026-09-01T10:00:00Z"}
	]`

	list, err := repo.ListByOwner(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	require.Len(t, list[0].Resources, 1)
	assert.Equal(t, idea.ResourceLink, list[0].Resources[0].Type)
	assert.Equal(t, "https://example.com", list[0].Resources[0].URL)
	assert.Empty(t, list[1].Resources)

	req, sawList := stub.saw(http.MethodGet, "/rest/v1/ideas")
	require.True(t, sawList)
	assert.Contains(t, req, "user_id=eq.user-1")
}

func TestRepository_ListByOwnerRejectsInvalidEnum(t *testing.T) {
	repo, stub := newTestRepo(t)
	stub.ideaListBody = `[
		{"id":"a","user_id":"user-1","title":"t","description":"","category":"other","priority":"high","status":"someday","tags":[],"reminder_date":null,"created_at":"2026-09-01T09:00:00Z","updated_at":"2026-09-01T09:00:00Z"}
	]`

	_, err := repo.ListByOwner(context.Background(), "user-1")

	require.Error(t, err)
	assert.True(t, errors.IsUnknown(err))
}

func TestRepository_UpdateUnknownIdeaIsNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Update(context.Background(), "user-1", sampleIdea(), false)

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRepository_DeleteUnknownIdeaIsNotFound(t *testing.T) {
	repo, stub := newTestRepo(t)
	stub.ideaDeleteStatus = http.StatusOK

	err := repo.Delete(context.Background(), "user-1", "ghost")

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRepository_CancelledContextIsRejected(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Insert(ctx, "user-1", sampleIdea())

	assert.ErrorIs(t, err, context.Canceled)
}
