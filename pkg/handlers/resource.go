package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/auth"
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
)

// Alert headers carry a translation key and its parameter to the admin UI.
const (
	HeaderAlert  = "X-ChatbotApp-Alert"
	HeaderParams = "X-ChatbotApp-Params"
	HeaderError  = "X-ChatbotApp-Error"
)

// ScopeMiddleware binds per-request resources (the pooled database connection) to a handler.
type ScopeMiddleware func(http.HandlerFunc) http.HandlerFunc

// requestDTO is the contract every request body type satisfies.
type requestDTO interface {
	GetID() *int64
	Validate(partial bool) error
}

// resource holds what every CRUD handler needs to name itself in URLs,
// alert headers and error bodies.
type resource struct {
	entityName string // camelCase, used in alert keys and error bodies
	basePath   string // e.g. /api/intent-entities
	appName    string
	logger     *zap.Logger
}

// newResource derives the collection path by pluralizing the kebab-case entity name.
func newResource(entityName, kebabName, appName string, logger *zap.Logger) resource {
	return resource{
		entityName: entityName,
		basePath:   "/api/" + inflection.Plural(kebabName),
		appName:    appName,
		logger:     logger,
	}
}

func (res resource) itemPath() string {
	return res.basePath + "/{id}"
}

func (res resource) location(id int64) string {
	return res.basePath + "/" + strconv.FormatInt(id, 10)
}

// ============================================================================
// Request Parsing
// ============================================================================

// parseID reads the {id} path segment.
func (res resource) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		res.writeError(w, http.StatusBadRequest, "invalid_id", "Invalid "+res.entityName+" ID format")
		return 0, false
	}
	return id, true
}

// decode reads a JSON body into dst.
func (res resource) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		res.logger.Debug("Rejected request body", zap.String("path", r.URL.Path), zap.Error(err))
		res.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return false
	}
	return true
}

// validate checks d and writes a validation_error body on failure.
func (res resource) validate(w http.ResponseWriter, d requestDTO, partial bool) bool {
	err := d.Validate(partial)
	if err == nil {
		return true
	}
	var verr *dto.ValidationError
	if !errors.As(err, &verr) {
		res.writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return false
	}
	body := ValidationErrorResponse{
		Error:       "validation_error",
		Message:     "Validation failed for " + res.entityName,
		FieldErrors: verr.Errors,
	}
	if err := WriteJSON(w, http.StatusBadRequest, body); err != nil {
		res.logger.Error("Failed to write error response", zap.Error(err))
	}
	return false
}

// checkCreateID rejects a POST body that already carries an id.
func (res resource) checkCreateID(w http.ResponseWriter, d requestDTO) bool {
	if d.GetID() != nil {
		res.writeIDError(w, apperrors.ErrIDExists, "A new "+res.entityName+" cannot already have an ID")
		return false
	}
	return true
}

// checkUpdateIDs applies the identifier checks shared by PUT and PATCH, in order:
// the body must carry an id, it must match the path, and the record must exist.
func (res resource) checkUpdateIDs(w http.ResponseWriter, r *http.Request, pathID int64, d requestDTO, exists func(int64) (bool, error)) bool {
	bodyID := d.GetID()
	if bodyID == nil {
		res.writeIDError(w, apperrors.ErrIDNull, "Invalid id")
		return false
	}
	if *bodyID != pathID {
		res.writeIDError(w, apperrors.ErrIDInvalid, "Invalid ID")
		return false
	}
	found, err := exists(pathID)
	if err != nil {
		res.writeServiceError(w, r, "check existence", err)
		return false
	}
	if !found {
		res.writeIDError(w, apperrors.ErrIDNotFound, "Entity not found")
		return false
	}
	return true
}

// eagerload reports whether relationships should be loaded. Defaults to true.
func eagerload(r *http.Request) bool {
	v := r.URL.Query().Get("eagerload")
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err != nil || b
}

// ============================================================================
// Response Writing
// ============================================================================

func (res resource) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		res.logger.Error("Failed to write error response", zap.Error(err))
	}
}

func (res resource) writeNotFound(w http.ResponseWriter) {
	res.writeError(w, http.StatusNotFound, "not_found", strings.ToUpper(res.entityName[:1])+res.entityName[1:]+" not found")
}

// writeIDError answers an identifier conflict. The reason is the sentinel's text.
func (res resource) writeIDError(w http.ResponseWriter, reason error, message string) {
	w.Header().Set(HeaderError, "error."+reason.Error())
	w.Header().Set(HeaderParams, res.entityName)
	body := IDErrorResponse{Error: reason.Error(), Message: message, EntityName: res.entityName}
	if err := WriteJSON(w, http.StatusBadRequest, body); err != nil {
		res.logger.Error("Failed to write error response", zap.Error(err))
	}
}

// writeServiceError classifies a service failure into a status and body.
func (res resource) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *dto.ValidationError
	switch {
	case errors.Is(err, apperrors.ErrIDExists):
		res.writeIDError(w, apperrors.ErrIDExists, "A new "+res.entityName+" cannot already have an ID")
	case errors.Is(err, apperrors.ErrIDNull):
		res.writeIDError(w, apperrors.ErrIDNull, "Invalid id")
	case errors.Is(err, apperrors.ErrNotFound):
		res.writeNotFound(w)
	case errors.Is(err, apperrors.ErrInvalidSort):
		res.writeError(w, http.StatusBadRequest, "invalid_sort", err.Error())
	case errors.As(err, &verr):
		res.writeError(w, http.StatusBadRequest, "validation_error", verr.Error())
	default:
		res.logger.Error("Failed to "+op+" "+res.entityName,
			zap.String("path", r.URL.Path),
			zap.Error(err))
		res.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to "+op+" "+res.entityName)
	}
}

func (res resource) alert(w http.ResponseWriter, action string, id int64) {
	w.Header().Set(HeaderAlert, res.appName+"."+res.entityName+"."+action)
	w.Header().Set(HeaderParams, strconv.FormatInt(id, 10))
}

// writeCreated answers a POST with 201, a Location header and the created body.
func (res resource) writeCreated(w http.ResponseWriter, id int64, body any) {
	w.Header().Set("Location", res.location(id))
	res.alert(w, "created", id)
	if err := WriteJSON(w, http.StatusCreated, body); err != nil {
		res.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeUpdated answers a PUT or PATCH. found is false when the record vanished mid-request.
func (res resource) writeUpdated(w http.ResponseWriter, id int64, body any, found bool) {
	if !found {
		res.writeNotFound(w)
		return
	}
	res.alert(w, "updated", id)
	if err := WriteJSON(w, http.StatusOK, body); err != nil {
		res.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (res resource) writeDeleted(w http.ResponseWriter, id int64) {
	res.alert(w, "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// writeFound answers a GET of one record.
func (res resource) writeFound(w http.ResponseWriter, body any, found bool) {
	if !found {
		res.writeNotFound(w)
		return
	}
	if err := WriteJSON(w, http.StatusOK, body); err != nil {
		res.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (res resource) writeList(w http.ResponseWriter, body any) {
	if err := WriteJSON(w, http.StatusOK, body); err != nil {
		res.logger.Error("Failed to write response", zap.Error(err))
	}
}

// register wires the five CRUD routes plus GET one behind auth and scope middleware.
func (res resource) register(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware, h crudHandler) {
	wrap := func(fn http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.RequireAuth(scope(fn))
	}
	mux.HandleFunc("POST "+res.basePath, wrap(h.Create))
	mux.HandleFunc("GET "+res.basePath, wrap(h.List))
	mux.HandleFunc("GET "+res.itemPath(), wrap(h.Get))
	mux.HandleFunc("PUT "+res.itemPath(), wrap(h.Update))
	mux.HandleFunc("PATCH "+res.itemPath(), wrap(h.PartialUpdate))
	mux.HandleFunc("DELETE "+res.itemPath(), wrap(h.Delete))
}

// crudHandler is implemented by every entity handler.
type crudHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	PartialUpdate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}
