package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsSetKindAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        *StoreError
		kind       Kind
		httpStatus int
	}{
		{"validation", NewValidationError("bad input"), KindValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("idea"), KindNotFound, http.StatusNotFound},
		{"unauthorized", NewUnauthorizedError(""), KindUnauthorized, http.StatusUnauthorized},
		{"transient", NewTransientError("io", nil), KindTransient, http.StatusServiceUnavailable},
		{"unknown", NewUnknownError("boom", nil), KindUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestUnauthorizedDefaultMessage(t *testing.T) {
	assert.Equal(t, "no active session", NewUnauthorizedError("").Message)
	assert.Equal(t, "token expired", NewUnauthorizedError("token expired").Message)
}

func TestFromPersistence(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, FromPersistence("refresh", nil))
	})

	t.Run("existing store error is preserved", func(t *testing.T) {
		original := NewNotFoundError("idea")
		got := FromPersistence("update", fmt.Errorf("repo: %w", original))
		assert.Equal(t, KindNotFound, got.Kind)
	})

	t.Run("context cancellation is transient", func(t *testing.T) {
		got := FromPersistence("refresh", context.Canceled)
		assert.Equal(t, KindTransient, got.Kind)
		assert.True(t, got.Retryable())
	})

	t.Run("deadline expiry is transient", func(t *testing.T) {
		got := FromPersistence("refresh", context.DeadlineExceeded)
		assert.Equal(t, KindTransient, got.Kind)
	})

	t.Run("anything else is unknown", func(t *testing.T) {
		got := FromPersistence("insert", stderrors.New("disk on fire"))
		assert.Equal(t, KindUnknown, got.Kind)
		assert.False(t, got.Retryable())
	})
}

func TestKindPredicates(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewTransientError("io", nil))

	assert.True(t, IsTransient(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.False(t, IsTransient(stderrors.New("plain")))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("root cause")
	err := NewUnknownError("failed", cause)

	assert.ErrorIs(t, err, cause)
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("store error keeps its kind", func(t *testing.T) {
		err := Wrap(NewValidationError("bad category"), "creating idea")
		se := GetStoreError(err)
		require.NotNil(t, se)
		assert.Equal(t, KindValidation, se.Kind)
		assert.Contains(t, se.Message, "creating idea")
	})

	t.Run("plain error becomes unknown", func(t *testing.T) {
		err := Wrap(stderrors.New("boom"), "loading blob")
		assert.True(t, IsUnknown(err))
	})
}

func TestWithDetails(t *testing.T) {
	err := NewValidationError("invalid value").
		WithDetails(map[string]interface{}{"field": "priority"})

	assert.Equal(t, "priority", err.Details["field"])
}
