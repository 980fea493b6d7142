package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/auth"
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
	"github.com/ekaya-inc/chatbot-admin/pkg/services"
)

// IntentHandler handles intent HTTP requests.
type IntentHandler struct {
	intentService services.IntentService
	pager         *Pager
	res           resource
	logger        *zap.Logger
}

// NewIntentHandler creates a new intent handler.
func NewIntentHandler(intentService services.IntentService, pager *Pager, appName string, logger *zap.Logger) *IntentHandler {
	return &IntentHandler{
		intentService: intentService,
		pager:         pager,
		res:           newResource("intent", "intent", appName, logger),
		logger:        logger,
	}
}

// RegisterRoutes registers the intent handler's routes on the given mux.
func (h *IntentHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	h.res.register(mux, authMiddleware, scope, h)
}

// Create handles POST /api/intents
func (h *IntentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.IntentDTO
	if !h.res.decode(w, r, &req) {
		return
	}
	if !h.res.checkCreateID(w, &req) || !h.res.validate(w, &req, false) {
		return
	}

	created, err := h.intentService.Save(r.Context(), &req)
	if err != nil {
		h.res.writeServiceError(w, r, "create", err)
		return
	}
	h.res.writeCreated(w, *created.ID, created)
}

// Update handles PUT /api/intents/{id}
func (h *IntentHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PartialUpdate handles PATCH /api/intents/{id}
func (h *IntentHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *IntentHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	var req dto.IntentDTO
	if !h.res.decode(w, r, &req) {
		return
	}
	exists := func(v int64) (bool, error) { return h.intentService.Exists(r.Context(), v) }
	if !h.res.checkUpdateIDs(w, r, id, &req, exists) {
		return
	}
	if !h.res.validate(w, &req, partial) {
		return
	}

	var (
		result *dto.IntentDTO
		err    error
	)
	if partial {
		result, err = h.intentService.PartialUpdate(r.Context(), &req)
	} else {
		result, err = h.intentService.Update(r.Context(), &req)
	}
	if err != nil {
		h.res.writeServiceError(w, r, "update", err)
		return
	}
	h.res.writeUpdated(w, id, result, result != nil)
}

// List handles GET /api/intents?page=&size=&sort=&eagerload=
func (h *IntentHandler) List(w http.ResponseWriter, r *http.Request) {
	pageable, ok := h.pager.Parse(w, r, "intents")
	if !ok {
		return
	}

	var (
		page *models.Page[*dto.IntentDTO]
		err  error
	)
	if eagerload(r) {
		page, err = h.intentService.FindAllWithEagerRelationships(r.Context(), pageable)
	} else {
		page, err = h.intentService.FindAll(r.Context(), pageable)
	}
	if err != nil {
		h.res.writeServiceError(w, r, "list", err)
		return
	}
	WriteHeaders(w, r, page)
	h.res.writeList(w, page.Content)
}

// Get handles GET /api/intents/{id}?eagerload=
func (h *IntentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}

	var (
		intent *dto.IntentDTO
		err    error
	)
	if eagerload(r) {
		intent, err = h.intentService.FindOneWithEagerRelationships(r.Context(), id)
	} else {
		intent, err = h.intentService.FindOne(r.Context(), id)
	}
	if err != nil {
		h.res.writeServiceError(w, r, "get", err)
		return
	}
	h.res.writeFound(w, intent, intent != nil)
}

// Delete handles DELETE /api/intents/{id}
func (h *IntentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	if err := h.intentService.Delete(r.Context(), id); err != nil {
		h.res.writeServiceError(w, r, "delete", err)
		return
	}
	h.res.writeDeleted(w, id)
}
