package ports

import (
	"context"

	"ideaflow-backend/domain/idea"
)

// IdeaRepository is the persistence port for ideas. Implementations
// exist for the local blob medium and the remote table pair; both are
// owner-scoped on every operation so one user can never touch
// another's ideas.
type IdeaRepository interface {
	// ListByOwner loads all ideas for an owner with their resources
	// nested, ordered by creation time descending.
	ListByOwner(ctx context.Context, ownerID string) ([]idea.Idea, error)

	// Insert persists a new idea and its resources as one logical
	// unit. A partial write must never go unreported: implementations
	// either roll the idea back or return an error naming the partial
	// state.
	Insert(ctx context.Context, ownerID string, it idea.Idea) error

	// Update persists the full post-patch idea. When replaceResources
	// is true the previous resource set is deleted and the idea's
	// current resources inserted in its place (not merged).
	Update(ctx context.Context, ownerID string, it idea.Idea, replaceResources bool) error

	// Delete removes the idea and cascades removal of its resources
	Delete(ctx context.Context, ownerID string, ideaID string) error
}

// SessionProvider exposes the current owner identity, or none, and
// notifies subscribers when it transitions. The idea store reacts to
// these transitions; it never asks the identity provider directly.
type SessionProvider interface {
	// Current returns the active owner ID, if any
	Current() (string, bool)

	// Subscribe registers a callback invoked on every session
	// transition with the owner ID and whether a session is active
	Subscribe(fn func(ownerID string, active bool))
}
