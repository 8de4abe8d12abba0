package handlers

import (
	"net/http"

	"ideaflow-backend/application/store"
	"ideaflow-backend/pkg/auth"
	"ideaflow-backend/pkg/common"
	"ideaflow-backend/pkg/errors"

	"go.uber.org/zap"
)

// SessionHandler handles explicit session lifecycle requests
type SessionHandler struct {
	stores *store.Manager
	logger *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(stores *store.Manager, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{stores: stores, logger: logger}
}

// ClearSession handles DELETE /session. The owner's store empties and
// the next authenticated request starts a fresh lifecycle.
func (h *SessionHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondStoreError(w, errors.NewUnauthorizedError(""))
		return
	}

	h.stores.Clear(userCtx.UserID)
	h.logger.Info("session cleared", zap.String("userID", userCtx.UserID))

	w.WriteHeader(http.StatusNoContent)
}
