package handlers

import (
	"net/http"
	"strings"
	"time"

	"ideaflow-backend/application/store"
	"ideaflow-backend/domain/idea"
	"ideaflow-backend/pkg/auth"
	"ideaflow-backend/pkg/common"
	"ideaflow-backend/pkg/errors"
	"ideaflow-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdeaHandler handles idea-related HTTP requests
type IdeaHandler struct {
	stores *store.Manager
	logger *zap.Logger
}

// NewIdeaHandler creates a new idea handler
func NewIdeaHandler(stores *store.Manager, logger *zap.Logger) *IdeaHandler {
	return &IdeaHandler{stores: stores, logger: logger}
}

// ResourcePayload is the wire form of an attached resource
type ResourcePayload struct {
	ID      string            `json:"id,omitempty"`
	Type    string            `json:"type" validate:"required,oneof=link file note"`
	Title   string            `json:"title" validate:"required,max=200"`
	URL     string            `json:"url,omitempty" validate:"omitempty,url"`
	Content string            `json:"content,omitempty"`
	Preview *idea.LinkPreview `json:"preview,omitempty"`
}

// CreateIdeaRequest is the request body for quick capture. Status is
// not accepted: new ideas always start as "new".
type CreateIdeaRequest struct {
	Title        string            `json:"title" validate:"required,min=1,max=200"`
	Description  string            `json:"description,omitempty"`
	Category     string            `json:"category" validate:"required,oneof=project-ideas blog-topics technical-concepts business-ideas creative-projects learning-goals personal other"`
	Priority     string            `json:"priority" validate:"required,oneof=high medium low"`
	Tags         []string          `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Resources    []ResourcePayload `json:"resources,omitempty" validate:"omitempty,dive"`
	ReminderDate *time.Time        `json:"reminderDate,omitempty"`
}

// UpdateIdeaRequest is the request body for a partial edit. Absent
// fields are left untouched; a present resources field replaces the
// previous resource set wholesale.
type UpdateIdeaRequest struct {
	Title        *string            `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string            `json:"description,omitempty"`
	Category     *string            `json:"category,omitempty" validate:"omitempty,oneof=project-ideas blog-topics technical-concepts business-ideas creative-projects learning-goals personal other"`
	Priority     *string            `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	Status       *string            `json:"status,omitempty" validate:"omitempty,oneof=new in-progress completed archived"`
	Tags         *[]string          `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Resources    *[]ResourcePayload `json:"resources,omitempty" validate:"omitempty,dive"`
	ReminderDate *time.Time         `json:"reminderDate,omitempty"`
}

// ListIdeas handles GET /ideas. Filter criteria arrive as query
// parameters and are applied to the store's snapshot.
func (h *IdeaHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	st, ok := h.acquireStore(w, r)
	if !ok {
		return
	}

	criteria, ok := h.parseCriteria(w, r)
	if !ok {
		return
	}

	ideas := idea.Filter(st.List(), criteria)
	if ideas == nil {
		ideas = []idea.Idea{}
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ideas": ideas,
		"total": len(ideas),
	})
}

// GetIdea handles GET /ideas/{ideaID}
func (h *IdeaHandler) GetIdea(w http.ResponseWriter, r *http.Request) {
	ideaID, ok := h.ideaID(w, r)
	if !ok {
		return
	}

	st, ok := h.acquireStore(w, r)
	if !ok {
		return
	}

	it, err := st.Get(ideaID)
	if err != nil {
		common.RespondStoreError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, it)
}

// CreateIdea handles POST /ideas
func (h *IdeaHandler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	var req CreateIdeaRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	st, ok := h.acquireStore(w, r)
	if !ok {
		return
	}

	in := idea.Input{
		Title:        req.Title,
		Description:  req.Description,
		Category:     idea.Category(req.Category),
		Priority:     idea.Priority(req.Priority),
		Tags:         req.Tags,
		Resources:    resourcesFromPayload(req.Resources),
		ReminderDate: req.ReminderDate,
	}

	created, err := st.Create(r.Context(), in)
	if err != nil {
		h.logger.Error("failed to create idea",
			zap.String("userID", h.userID(r)),
			zap.Error(err),
		)
		common.RespondStoreError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, created)
}

// UpdateIdea handles PUT /ideas/{ideaID}
func (h *IdeaHandler) UpdateIdea(w http.ResponseWriter, r *http.Request) {
	ideaID, ok := h.ideaID(w, r)
	if !ok {
		return
	}

	var req UpdateIdeaRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	st, ok := h.acquireStore(w, r)
	if !ok {
		return
	}

	patch := idea.Patch{
		Title:        req.Title,
		Description:  req.Description,
		Tags:         req.Tags,
		ReminderDate: req.ReminderDate,
	}
	if req.Category != nil {
		c := idea.Category(*req.Category)
		patch.Category = &c
	}
	if req.Priority != nil {
		p := idea.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		s := idea.Status(*req.Status)
		patch.Status = &s
	}
	if req.Resources != nil {
		resources := resourcesFromPayload(*req.Resources)
		patch.Resources = &resources
	}

	if err := st.Update(r.Context(), ideaID, patch); err != nil {
		h.logger.Error("failed to update idea",
			zap.String("ideaID", ideaID),
			zap.String("userID", h.userID(r)),
			zap.Error(err),
		)
		common.RespondStoreError(w, err)
		return
	}

	updated, err := st.Get(ideaID)
	if err != nil {
		common.RespondStoreError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, updated)
}

// UpdateStatus handles PATCH /ideas/{ideaID}/status, the quick toggle
func (h *IdeaHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ideaID, ok := h.ideaID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=new in-progress completed archived"`
	}
	if err := common.ParseJSONBody(r, &req, 1<<16); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	st, ok := h.acquireStore(w, r)
	if !ok {
		return
	}

	if err := st.UpdateStatus(r.Context(), ideaID, idea.Status(req.Status)); err != nil {
		common.RespondStoreError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": ideaID, "status": req.Status})
}

// UpdatePriority handles PATCH /ideas/{ideaID}/priority, the quick toggle
func (h *IdeaHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	ideaID, ok := h.ideaID(w, r)
	if !ok {
		return
	}

	var req struct {
		Priority string `json:"priority" validate:"required,oneof=high medium low"`
	}
	if err := common.ParseJSONBody(r, &req, 1<<16); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	st, ok := h.acquireStore(w, r)
	if !ok {
		return
	}

	if err := st.UpdatePriority(r.Context(), ideaID, idea.Priority(req.Priority)); err != nil {
		common.RespondStoreError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": ideaID, "priority": req.Priority})
}

// DeleteIdea handles DELETE /ideas/{ideaID}. Confirmation happens in
// the client before this is ever called.
func (h *IdeaHandler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	ideaID, ok := h.ideaID(w, r)
	if !ok {
		return
	}

	st, ok := h.acquireStore(w, r)
	if !ok {
		return
	}

	if err := st.Delete(r.Context(), ideaID); err != nil {
		h.logger.Error("failed to delete idea",
			zap.String("ideaID", ideaID),
			zap.String("userID", h.userID(r)),
			zap.Error(err),
		)
		common.RespondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RefreshIdeas handles POST /ideas/refresh, forcing a reload from the
// persistence medium.
func (h *IdeaHandler) RefreshIdeas(w http.ResponseWriter, r *http.Request) {
	st, ok := h.acquireStore(w, r)
	if !ok {
		return
	}

	if err := st.Refresh(r.Context()); err != nil {
		common.RespondStoreError(w, err)
		return
	}

	ideas := st.List()
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ideas": ideas,
		"total": len(ideas),
	})
}

// Helper methods

func (h *IdeaHandler) acquireStore(w http.ResponseWriter, r *http.Request) (*store.Store, bool) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondStoreError(w, errors.NewUnauthorizedError(""))
		return nil, false
	}

	st, err := h.stores.Acquire(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to load idea store",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		common.RespondStoreError(w, err)
		return nil, false
	}
	return st, true
}

func (h *IdeaHandler) ideaID(w http.ResponseWriter, r *http.Request) (string, bool) {
	ideaID := chi.URLParam(r, "ideaID")
	if ideaID == "" {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Idea ID is required")
		return "", false
	}
	if _, err := uuid.Parse(ideaID); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid idea ID format")
		return "", false
	}
	return ideaID, true
}

func (h *IdeaHandler) userID(r *http.Request) string {
	if userCtx, err := auth.GetUserFromContext(r.Context()); err == nil {
		return userCtx.UserID
	}
	return ""
}

func (h *IdeaHandler) parseCriteria(w http.ResponseWriter, r *http.Request) (idea.Criteria, bool) {
	q := r.URL.Query()
	criteria := idea.Criteria{
		Search: q.Get("q"),
	}
	if criteria.Search == "" {
		criteria.Search = q.Get("search")
	}

	if raw := q.Get("category"); raw != "" {
		c := idea.Category(raw)
		if !c.Valid() {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "category must be a known value")
			return idea.Criteria{}, false
		}
		criteria.Category = c
	}
	if raw := q.Get("priority"); raw != "" {
		p := idea.Priority(raw)
		if !p.Valid() {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "priority must be a known value")
			return idea.Criteria{}, false
		}
		criteria.Priority = p
	}
	if raw := q.Get("status"); raw != "" {
		s := idea.Status(raw)
		if !s.Valid() {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "status must be a known value")
			return idea.Criteria{}, false
		}
		criteria.Status = s
	}
	if raw := q.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				criteria.Tags = append(criteria.Tags, tag)
			}
		}
	}

	return criteria, true
}

func resourcesFromPayload(payloads []ResourcePayload) []idea.Resource {
	if payloads == nil {
		return nil
	}
	resources := make([]idea.Resource, 0, len(payloads))
	for _, p := range payloads {
		resources = append(resources, idea.Resource{
			ID:      p.ID,
			Type:    idea.ResourceType(p.Type),
			Title:   p.Title,
			URL:     p.URL,
			Content: p.Content,
			Preview: p.Preview,
		})
	}
	return resources
}
