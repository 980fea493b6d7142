package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
)

// IDErrorResponse is the body of an identifier conflict (idexists, idnull, idinvalid, idnotfound).
type IDErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	EntityName string `json:"entity_name"`
}

// ValidationErrorResponse is the body of a rejected request DTO.
type ValidationErrorResponse struct {
	Error       string           `json:"error"`
	Message     string           `json:"message"`
	FieldErrors []dto.FieldError `json:"field_errors"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}
