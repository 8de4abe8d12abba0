package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type transition struct {
	ownerID string
	active  bool
}

func TestHub_StartsInactive(t *testing.T) {
	h := NewHub()

	ownerID, active := h.Current()

	assert.False(t, active)
	assert.Empty(t, ownerID)
}

func TestHub_AcquireNotifiesSubscribers(t *testing.T) {
	h := NewHub()
	var got []transition
	h.Subscribe(func(ownerID string, active bool) {
		got = append(got, transition{ownerID, active})
	})

	h.Acquire("user-1")

	ownerID, active := h.Current()
	assert.True(t, active)
	assert.Equal(t, "user-1", ownerID)
	assert.Equal(t, []transition{{"user-1", true}}, got)
}

func TestHub_ReacquireSameOwnerIsNoOp(t *testing.T) {
	h := NewHub()
	var notifications int
	h.Subscribe(func(string, bool) { notifications++ })

	h.Acquire("user-1")
	h.Acquire("user-1")

	assert.Equal(t, 1, notifications)
}

func TestHub_AcquireDifferentOwnerNotifiesAgain(t *testing.T) {
	h := NewHub()
	var got []transition
	h.Subscribe(func(ownerID string, active bool) {
		got = append(got, transition{ownerID, active})
	})

	h.Acquire("user-1")
	h.Acquire("user-2")

	assert.Equal(t, []transition{{"user-1", true}, {"user-2", true}}, got)
}

func TestHub_ClearNotifiesAndDeactivates(t *testing.T) {
	h := NewHub()
	var got []transition
	h.Subscribe(func(ownerID string, active bool) {
		got = append(got, transition{ownerID, active})
	})

	h.Acquire("user-1")
	h.Clear()

	_, active := h.Current()
	assert.False(t, active)
	assert.Equal(t, []transition{{"user-1", true}, {"user-1", false}}, got)
}

func TestHub_ClearWhenInactiveIsNoOp(t *testing.T) {
	h := NewHub()
	var notifications int
	h.Subscribe(func(string, bool) { notifications++ })

	h.Clear()

	assert.Zero(t, notifications)
}
