package store

import (
	"context"
	"sync"
	"time"

	"ideaflow-backend/application/ports"
	"ideaflow-backend/domain/idea"
	"ideaflow-backend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the lifecycle state of a store instance
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateEmpty         State = "empty"
)

// refreshTimeout bounds session-triggered refreshes, which run outside
// any HTTP request context.
const refreshTimeout = 15 * time.Second

// Store is the single point of truth for one owner's ideas. It holds
// an in-memory snapshot backed by a persistence medium and reacts to
// session transitions. All mutation flows through its operations; no
// other component touches the snapshot.
type Store struct {
	repo     ports.IdeaRepository
	sessions ports.SessionProvider
	logger   *zap.Logger

	mu    sync.RWMutex
	ideas []idea.Idea
	state State
}

// New creates a store and subscribes it to session transitions.
// Acquiring a session triggers a refresh; clearing it empties the
// snapshot.
func New(repo ports.IdeaRepository, sessions ports.SessionProvider, logger *zap.Logger) *Store {
	s := &Store{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
		state:    StateUninitialized,
	}
	sessions.Subscribe(s.onSessionChange)
	return s
}

func (s *Store) onSessionChange(ownerID string, active bool) {
	if !active {
		s.mu.Lock()
		s.ideas = nil
		s.state = StateEmpty
		s.mu.Unlock()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh on session acquire failed",
			zap.String("ownerID", ownerID),
			zap.Error(err),
		)
	}
}

// State returns the store's current lifecycle state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// List returns the current in-memory snapshot. It never blocks on I/O
// and never observes a partially applied mutation.
func (s *Store) List() []idea.Idea {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]idea.Idea, len(s.ideas))
	copy(out, s.ideas)
	return out
}

// Refresh reloads all ideas for the active session, most recent first,
// and replaces the snapshot atomically. Without a session the snapshot
// becomes empty and the call succeeds. A failed reload leaves the
// previous snapshot intact.
func (s *Store) Refresh(ctx context.Context) error {
	ownerID, active := s.sessions.Current()
	if !active {
		s.mu.Lock()
		s.ideas = nil
		s.state = StateEmpty
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	prev := s.state
	s.state = StateLoading
	s.mu.Unlock()

	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.mu.Lock()
		s.state = prev
		s.mu.Unlock()
		return errors.FromPersistence("refresh", err)
	}

	// Whole-slice swap: concurrent refreshes each install a complete
	// result, never an interleaving of two.
	s.mu.Lock()
	s.ideas = list
	s.state = StateReady
	s.mu.Unlock()
	return nil
}

// Create persists a new idea from the input and returns it. The store
// assigns the ID, sets createdAt = updatedAt = now, and forces status
// to new (quick capture). The idea and its resources are persisted as
// one logical unit; a partial write is always surfaced.
func (s *Store) Create(ctx context.Context, in idea.Input) (idea.Idea, error) {
	ownerID, active := s.sessions.Current()
	if !active {
		return idea.Idea{}, errors.NewUnauthorizedError("")
	}
	if err := in.Validate(); err != nil {
		return idea.Idea{}, err
	}

	now := time.Now().UTC()
	it := idea.Idea{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Priority:     in.Priority,
		Status:       idea.StatusNew,
		Tags:         in.Tags,
		Resources:    in.Resources,
		CreatedAt:    now,
		UpdatedAt:    now,
		ReminderDate: in.ReminderDate,
	}
	for i := range it.Resources {
		if it.Resources[i].ID == "" {
			it.Resources[i].ID = uuid.New().String()
		}
		if it.Resources[i].CreatedAt.IsZero() {
			it.Resources[i].CreatedAt = now
		}
	}

	if err := s.repo.Insert(ctx, ownerID, it); err != nil {
		return idea.Idea{}, errors.FromPersistence("create", err)
	}

	// Snapshot is ordered by creation time descending, so the new
	// idea goes in front.
	s.mu.Lock()
	s.ideas = append([]idea.Idea{it}, s.ideas...)
	s.state = StateReady
	s.mu.Unlock()

	return it, nil
}

// Update applies the present fields of the patch to the identified
// idea, refreshing updatedAt. A non-nil Resources field replaces the
// previous resource set wholesale (delete-all-then-insert, not a
// merge). An empty patch is a no-op success. Fails with NotFound if
// the idea is not in the owner's set.
func (s *Store) Update(ctx context.Context, ideaID string, patch idea.Patch) error {
	ownerID, active := s.sessions.Current()
	if !active {
		return errors.NewUnauthorizedError("")
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	s.mu.RLock()
	idx := s.indexOf(ideaID)
	if idx < 0 {
		s.mu.RUnlock()
		return errors.NewNotFoundError("idea")
	}
	updated := s.ideas[idx]
	s.mu.RUnlock()

	// updatedAt advances on field changes only, so a patch carrying
	// nothing is a no-op success.
	if patch.Empty() {
		return nil
	}

	patch.Apply(&updated)
	updated.UpdatedAt = time.Now().UTC()
	if patch.Resources != nil {
		now := updated.UpdatedAt
		for i := range updated.Resources {
			if updated.Resources[i].ID == "" {
				updated.Resources[i].ID = uuid.New().String()
			}
			if updated.Resources[i].CreatedAt.IsZero() {
				updated.Resources[i].CreatedAt = now
			}
		}
	}

	if err := s.repo.Update(ctx, ownerID, updated, patch.Resources != nil); err != nil {
		return errors.FromPersistence("update", err)
	}

	s.mu.Lock()
	// Re-resolve: the snapshot may have moved under a racing write.
	// Last write wins, by the ordering contract.
	if idx := s.indexOf(ideaID); idx >= 0 {
		s.ideas[idx] = updated
	}
	s.mu.Unlock()
	return nil
}

// UpdateStatus is the quick status toggle
func (s *Store) UpdateStatus(ctx context.Context, ideaID string, status idea.Status) error {
	return s.Update(ctx, ideaID, idea.Patch{Status: &status})
}

// UpdatePriority is the quick priority toggle
func (s *Store) UpdatePriority(ctx context.Context, ideaID string, priority idea.Priority) error {
	return s.Update(ctx, ideaID, idea.Patch{Priority: &priority})
}

// Delete removes the idea and cascades removal of its resources.
// Fails with NotFound if the idea is not in the owner's set. Caller
// confirmation is a View Layer responsibility.
func (s *Store) Delete(ctx context.Context, ideaID string) error {
	ownerID, active := s.sessions.Current()
	if !active {
		return errors.NewUnauthorizedError("")
	}

	s.mu.RLock()
	idx := s.indexOf(ideaID)
	s.mu.RUnlock()
	if idx < 0 {
		return errors.NewNotFoundError("idea")
	}

	if err := s.repo.Delete(ctx, ownerID, ideaID); err != nil {
		return errors.FromPersistence("delete", err)
	}

	s.mu.Lock()
	if idx := s.indexOf(ideaID); idx >= 0 {
		s.ideas = append(s.ideas[:idx], s.ideas[idx+1:]...)
	}
	s.mu.Unlock()
	return nil
}

// Get returns the identified idea from the snapshot
func (s *Store) Get(ideaID string) (idea.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(ideaID); idx >= 0 {
		return s.ideas[idx], nil
	}
	return idea.Idea{}, errors.NewNotFoundError("idea")
}

// indexOf must be called with at least a read lock held
func (s *Store) indexOf(ideaID string) int {
	for i := range s.ideas {
		if s.ideas[i].ID == ideaID {
			return i
		}
	}
	return -1
}
