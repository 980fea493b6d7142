package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/auth"
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/services"
)

// FollowupHandler handles follow-up HTTP requests.
type FollowupHandler struct {
	followupService services.FollowupService
	res             resource
	logger          *zap.Logger
}

// NewFollowupHandler creates a new follow-up handler.
func NewFollowupHandler(followupService services.FollowupService, appName string, logger *zap.Logger) *FollowupHandler {
	return &FollowupHandler{
		followupService: followupService,
		res:             newResource("followup", "followup", appName, logger),
		logger:          logger,
	}
}

// RegisterRoutes registers the follow-up handler's routes on the given mux.
func (h *FollowupHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	h.res.register(mux, authMiddleware, scope, h)
}

// Create handles POST /api/followups
func (h *FollowupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.FollowupDTO
	if !h.res.decode(w, r, &req) {
		return
	}
	if !h.res.checkCreateID(w, &req) || !h.res.validate(w, &req, false) {
		return
	}

	created, err := h.followupService.Save(r.Context(), &req)
	if err != nil {
		h.res.writeServiceError(w, r, "create", err)
		return
	}
	h.res.writeCreated(w, *created.ID, created)
}

// Update handles PUT /api/followups/{id}
func (h *FollowupHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PartialUpdate handles PATCH /api/followups/{id}
func (h *FollowupHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *FollowupHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	var req dto.FollowupDTO
	if !h.res.decode(w, r, &req) {
		return
	}
	exists := func(v int64) (bool, error) { return h.followupService.Exists(r.Context(), v) }
	if !h.res.checkUpdateIDs(w, r, id, &req, exists) {
		return
	}
	if !h.res.validate(w, &req, partial) {
		return
	}

	var (
		result *dto.FollowupDTO
		err    error
	)
	if partial {
		result, err = h.followupService.PartialUpdate(r.Context(), &req)
	} else {
		result, err = h.followupService.Update(r.Context(), &req)
	}
	if err != nil {
		h.res.writeServiceError(w, r, "update", err)
		return
	}
	h.res.writeUpdated(w, id, result, result != nil)
}

// List handles GET /api/followups?eagerload=
func (h *FollowupHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		list []*dto.FollowupDTO
		err  error
	)
	if eagerload(r) {
		list, err = h.followupService.FindAllWithEagerRelationships(r.Context())
	} else {
		list, err = h.followupService.FindAll(r.Context())
	}
	if err != nil {
		h.res.writeServiceError(w, r, "list", err)
		return
	}
	h.res.writeList(w, list)
}

// Get handles GET /api/followups/{id}?eagerload=
func (h *FollowupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}

	var (
		found *dto.FollowupDTO
		err   error
	)
	if eagerload(r) {
		found, err = h.followupService.FindOneWithEagerRelationships(r.Context(), id)
	} else {
		found, err = h.followupService.FindOne(r.Context(), id)
	}
	if err != nil {
		h.res.writeServiceError(w, r, "get", err)
		return
	}
	h.res.writeFound(w, found, found != nil)
}

// Delete handles DELETE /api/followups/{id}
func (h *FollowupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	if err := h.followupService.Delete(r.Context(), id); err != nil {
		h.res.writeServiceError(w, r, "delete", err)
		return
	}
	h.res.writeDeleted(w, id)
}
