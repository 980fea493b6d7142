package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/auth"
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/services"
)

// BotHandler handles bot HTTP requests.
type BotHandler struct {
	botService services.BotService
	res        resource
	logger     *zap.Logger
}

// NewBotHandler creates a new bot handler.
func NewBotHandler(botService services.BotService, appName string, logger *zap.Logger) *BotHandler {
	return &BotHandler{
		botService: botService,
		res:        newResource("bot", "bot", appName, logger),
		logger:     logger,
	}
}

// RegisterRoutes registers the bot handler's routes on the given mux.
func (h *BotHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	h.res.register(mux, authMiddleware, scope, h)
}

// Create handles POST /api/bots
func (h *BotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.BotDTO
	if !h.res.decode(w, r, &req) {
		return
	}
	if !h.res.checkCreateID(w, &req) || !h.res.validate(w, &req, false) {
		return
	}

	created, err := h.botService.Save(r.Context(), &req)
	if err != nil {
		h.res.writeServiceError(w, r, "create", err)
		return
	}
	h.res.writeCreated(w, *created.ID, created)
}

// Update handles PUT /api/bots/{id}
func (h *BotHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PartialUpdate handles PATCH /api/bots/{id}
func (h *BotHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *BotHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	var req dto.BotDTO
	if !h.res.decode(w, r, &req) {
		return
	}
	exists := func(v int64) (bool, error) { return h.botService.Exists(r.Context(), v) }
	if !h.res.checkUpdateIDs(w, r, id, &req, exists) {
		return
	}
	if !h.res.validate(w, &req, partial) {
		return
	}

	var (
		result *dto.BotDTO
		err    error
	)
	if partial {
		result, err = h.botService.PartialUpdate(r.Context(), &req)
	} else {
		result, err = h.botService.Update(r.Context(), &req)
	}
	if err != nil {
		h.res.writeServiceError(w, r, "update", err)
		return
	}
	h.res.writeUpdated(w, id, result, result != nil)
}

// List handles GET /api/bots
func (h *BotHandler) List(w http.ResponseWriter, r *http.Request) {
	bots, err := h.botService.FindAll(r.Context())
	if err != nil {
		h.res.writeServiceError(w, r, "list", err)
		return
	}
	h.res.writeList(w, bots)
}

// Get handles GET /api/bots/{id}
func (h *BotHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	bot, err := h.botService.FindOne(r.Context(), id)
	if err != nil {
		h.res.writeServiceError(w, r, "get", err)
		return
	}
	h.res.writeFound(w, bot, bot != nil)
}

// Delete handles DELETE /api/bots/{id}
func (h *BotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.res.parseID(w, r)
	if !ok {
		return
	}
	if err := h.botService.Delete(r.Context(), id); err != nil {
		h.res.writeServiceError(w, r, "delete", err)
		return
	}
	h.res.writeDeleted(w, id)
}
