package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/auth"
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/services"
)

// UtteranceHandler handles utterance HTTP requests.
type UtteranceHandler struct {
	utteranceService services.UtteranceService
	res              resource
	logger           *zap.Logger
}

// NewUtteranceHandler creates a new utterance handler.
func NewUtteranceHandler(utteranceService services.UtteranceService, appName string, logger *zap.Logger) *UtteranceHandler {
	return &UtteranceHandler{
		utteranceService: utteranceService,
		res:              newResource("utterance", "utterance", appName, logger),
		logger:           logger,
	}
}

// RegisterRoutes registers the utterance handler's routes on the given mux.
func (h *UtteranceHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	h.res.register(mux, authMiddleware, scope, h)
}

// Create handles POST /api/utterances
func (h *UtteranceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.UtteranceDTO
	if !h.res.decode(w, r, &req) {
		return
	}
	if !h.res.checkCreateID(w, &req) || !h.res.validate(w, &req, false) {
		return
	}

	created, err := h.utteranceService.Save(r.Context(), &req)
	if err != nil {
		h.res.writeServiceError(w, r, "create", err)
		return
	}
	h.res.writeCreated(w, *created.ID, created)
}

// Update handles PUT /api/utterances/{id}
func (h *UtteranceHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PartialUpdate handles PATCH /api/utterances/{id}
func (h *UtteranceHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *UtteranceHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	var req dto.UtteranceDTO
	if !h.res.decode(w, r, &req) {
		return
	}
	exists := func(v int64) (bool, error) { return h.utteranceService.Exists(r.Context(), v) }
	if !h.res.checkUpdateIDs(w, r, id, &req, exists) {
		return
	}
	if !h.res.validate(w, &req, partial) {
		return
	}

	var (
		result *dto.UtteranceDTO
		err    error
	)
	if partial {
		result, err = h.utteranceService.PartialUpdate(r.Context(), &req)
	} else {
		result, err = h.utteranceService.Update(r.Context(), &req)
	}
	if err != nil {
		h.res.writeServiceError(w, r, "update", err)
		return
	}
	h.res.writeUpdated(w, id, result, result != nil)
}

// List handles GET /api/utterances?eagerload=
func (h *UtteranceHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		list []*dto.UtteranceDTO
		err  error
	)
	if eagerload(r) {
		list, err = h.utteranceService.FindAllWithEagerRelationships(r.Context())
	} else {
		list, err = h.utteranceService.FindAll(r.Context())
	}
	if err != nil {
		h.res.writeServiceError(w, r, "list", err)
		return
	}
	h.res.writeList(w, list)
}

// Get handles GET /api/utterances/{id}?eagerload=
func (h *UtteranceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}

	var (
		found *dto.UtteranceDTO
		err   error
	)
	if eagerload(r) {
		found, err = h.utteranceService.FindOneWithEagerRelationships(r.Context(), id)
	} else {
		found, err = h.utteranceService.FindOne(r.Context(), id)
	}
	if err != nil {
		h.res.writeServiceError(w, r, "get", err)
		return
	}
	h.res.writeFound(w, found, found != nil)
}

// Delete handles DELETE /api/utterances/{id}
func (h *UtteranceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	if err := h.utteranceService.Delete(r.Context(), id); err != nil {
		h.res.writeServiceError(w, r, "delete", err)
		return
	}
	h.res.writeDeleted(w, id)
}
