package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/auth"
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/services"
)

// IntentEntityHandler handles intent entity HTTP requests.
type IntentEntityHandler struct {
	entityService services.IntentEntityService
	pager         *Pager
	res           resource
	logger        *zap.Logger
}

// NewIntentEntityHandler creates a new intent entity handler.
func NewIntentEntityHandler(entityService services.IntentEntityService, pager *Pager, appName string, logger *zap.Logger) *IntentEntityHandler {
	return &IntentEntityHandler{
		entityService: entityService,
		pager:         pager,
		res:           newResource("intentEntity", "intent-entity", appName, logger),
		logger:        logger,
	}
}

// RegisterRoutes registers the intent entity handler's routes on the given mux.
func (h *IntentEntityHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	h.res.register(mux, authMiddleware, scope, h)
}

// Create handles POST /api/intent-entities
func (h *IntentEntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.IntentEntityDTO
	if !h.res.decode(w, r, &req) {
		return
	}
	if !h.res.checkCreateID(w, &req) || !h.res.validate(w, &req, false) {
		return
	}

	created, err := h.entityService.Save(r.Context(), &req)
	if err != nil {
		h.res.writeServiceError(w, r, "create", err)
		return
	}
	h.res.writeCreated(w, *created.ID, created)
}

// Update handles PUT /api/intent-entities/{id}
func (h *IntentEntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PartialUpdate handles PATCH /api/intent-entities/{id}
func (h *IntentEntityHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *IntentEntityHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	var req dto.IntentEntityDTO
	if !h.res.decode(w, r, &req) {
		return
	}
	exists := func(v int64) (bool, error) { return h.entityService.Exists(r.Context(), v) }
	if !h.res.checkUpdateIDs(w, r, id, &req, exists) {
		return
	}
	if !h.res.validate(w, &req, partial) {
		return
	}

	var (
		result *dto.IntentEntityDTO
		err    error
	)
	if partial {
		result, err = h.entityService.PartialUpdate(r.Context(), &req)
	} else {
		result, err = h.entityService.Update(r.Context(), &req)
	}
	if err != nil {
		h.res.writeServiceError(w, r, "update", err)
		return
	}
	h.res.writeUpdated(w, id, result, result != nil)
}

// List handles GET /api/intent-entities?page=&size=&sort=
func (h *IntentEntityHandler) List(w http.ResponseWriter, r *http.Request) {
	pageable, ok := h.pager.Parse(w, r, "intent-entities")
	if !ok {
		return
	}
	page, err := h.entityService.FindAll(r.Context(), pageable)
	if err != nil {
		h.res.writeServiceError(w, r, "list", err)
		return
	}
	WriteHeaders(w, r, page)
	h.res.writeList(w, page.Content)
}

// Get handles GET /api/intent-entities/{id}
func (h *IntentEntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	entity, err := h.entityService.FindOne(r.Context(), id)
	if err != nil {
		h.res.writeServiceError(w, r, "get", err)
		return
	}
	h.res.writeFound(w, entity, entity != nil)
}

// Delete handles DELETE /api/intent-entities/{id}
func (h *IntentEntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	if err := h.entityService.Delete(r.Context(), id); err != nil {
		h.res.writeServiceError(w, r, "delete", err)
		return
	}
	h.res.writeDeleted(w, id)
}
