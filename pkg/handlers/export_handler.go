package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/audit"
	"github.com/ekaya-inc/chatbot-admin/pkg/auth"
	"github.com/ekaya-inc/chatbot-admin/pkg/services"
)

// ExportHandler serves a bot's knowledge base as a YAML download.
type ExportHandler struct {
	knowledgeBase services.KnowledgeBaseService
	auditor       *audit.SecurityAuditor
	res           resource
	logger        *zap.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(knowledgeBase services.KnowledgeBaseService, auditor *audit.SecurityAuditor, appName string, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		knowledgeBase: knowledgeBase,
		auditor:       auditor,
		res:           newResource("bot", "bot", appName, logger),
		logger:        logger,
	}
}

// RegisterRoutes registers the export route on the given mux.
func (h *ExportHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	mux.HandleFunc("GET "+h.res.itemPath()+"/export", authMiddleware.RequireAuth(scope(h.Export)))
}

// Export handles GET /api/bots/{id}/export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	botID, ok := h.res.parseID(w, r)
	if !ok {
		return
	}

	doc, err := h.knowledgeBase.ExportBot(r.Context(), botID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.res.writeNotFound(w)
			return
		}
		h.res.writeServiceError(w, r, "export", err)
		return
	}

	h.auditor.LogDataExport(r.Context(), botID, r.RemoteAddr)

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bot-%d.yaml"`, botID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.logger.Error("Failed to write export", zap.Int64("bot_id", botID), zap.Error(err))
	}
}
