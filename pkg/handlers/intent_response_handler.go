package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/auth"
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/services"
)

// FilterIntentIsNull selects responses no intent points at.
const FilterIntentIsNull = "intent-is-null"

// IntentResponseHandler handles intent response HTTP requests.
type IntentResponseHandler struct {
	responseService services.IntentResponseService
	res             resource
	logger          *zap.Logger
}

// NewIntentResponseHandler creates a new intent response handler.
func NewIntentResponseHandler(responseService services.IntentResponseService, appName string, logger *zap.Logger) *IntentResponseHandler {
	return &IntentResponseHandler{
		responseService: responseService,
		res:             newResource("intentResponse", "intent-response", appName, logger),
		logger:          logger,
	}
}

// RegisterRoutes registers the intent response handler's routes on the given mux.
func (h *IntentResponseHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	h.res.register(mux, authMiddleware, scope, h)
}

// Create handles POST /api/intent-responses
func (h *IntentResponseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.IntentResponseDTO
	if !h.res.decode(w, r, &req) {
		return
	}
	if !h.res.checkCreateID(w, &req) || !h.res.validate(w, &req, false) {
		return
	}

	created, err := h.responseService.Save(r.Context(), &req)
	if err != nil {
		h.res.writeServiceError(w, r, "create", err)
		return
	}
	h.res.writeCreated(w, *created.ID, created)
}

// Update handles PUT /api/intent-responses/{id}
func (h *IntentResponseHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PartialUpdate handles PATCH /api/intent-responses/{id}
func (h *IntentResponseHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *IntentResponseHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	var req dto.IntentResponseDTO
	if !h.res.decode(w, r, &req) {
		return
	}
	exists := func(v int64) (bool, error) { return h.responseService.Exists(r.Context(), v) }
	if !h.res.checkUpdateIDs(w, r, id, &req, exists) {
		return
	}
	if !h.res.validate(w, &req, partial) {
		return
	}

	var (
		result *dto.IntentResponseDTO
		err    error
	)
	if partial {
		result, err = h.responseService.PartialUpdate(r.Context(), &req)
	} else {
		result, err = h.responseService.Update(r.Context(), &req)
	}
	if err != nil {
		h.res.writeServiceError(w, r, "update", err)
		return
	}
	h.res.writeUpdated(w, id, result, result != nil)
}

// List handles GET /api/intent-responses, optionally with ?filter=intent-is-null.
// Any other filter value lists every response.
func (h *IntentResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		responses []*dto.IntentResponseDTO
		err       error
	)
	if r.URL.Query().Get("filter") == FilterIntentIsNull {
		responses, err = h.responseService.FindAllWhereIntentIsNull(r.Context())
	} else {
		responses, err = h.responseService.FindAll(r.Context())
	}
	if err != nil {
		h.res.writeServiceError(w, r, "list", err)
		return
	}
	h.res.writeList(w, responses)
}

// Get handles GET /api/intent-responses/{id}
func (h *IntentResponseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	response, err := h.responseService.FindOne(r.Context(), id)
	if err != nil {
		h.res.writeServiceError(w, r, "get", err)
		return
	}
	h.res.writeFound(w, response, response != nil)
}

// Delete handles DELETE /api/intent-responses/{id}
func (h *IntentResponseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	if err := h.responseService.Delete(r.Context(), id); err != nil {
		h.res.writeServiceError(w, r, "delete", err)
		return
	}
	h.res.writeDeleted(w, id)
}
