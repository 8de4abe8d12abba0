package handlers

import (
	"net/http"

	"ideaflow-backend/application/store"
	"ideaflow-backend/domain/idea"
	"ideaflow-backend/pkg/auth"
	"ideaflow-backend/pkg/common"
	"ideaflow-backend/pkg/errors"

	"go.uber.org/zap"
)

// TagHandler serves the distinct-tag list that populates the tag
// filter in the client.
type TagHandler struct {
	stores *store.Manager
	logger *zap.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(stores *store.Manager, logger *zap.Logger) *TagHandler {
	return &TagHandler{stores: stores, logger: logger}
}

// ListTags handles GET /tags: the sorted, deduplicated union of all
// tags across the owner's ideas.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondStoreError(w, errors.NewUnauthorizedError(""))
		return
	}

	st, err := h.stores.Acquire(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to load idea store",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		common.RespondStoreError(w, err)
		return
	}

	tags := idea.DistinctTags(st.List())
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}
