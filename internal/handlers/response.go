package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dine24/dine24-api/internal/validation"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// ValidationResponse is the 422 body listing every failed field
type ValidationResponse struct {
	Error  string            `json:"error"`
	Fields validation.Result `json:"fields"`
}

// WriteValidation writes a 422 response for a validation result
func WriteValidation(w http.ResponseWriter, result validation.Result, logger *slog.Logger) {
	WriteJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
		Error:  "Validation failed",
		Fields: result,
	}, logger)
}

// WritePDF writes a PDF download
func WritePDF(w http.ResponseWriter, filename string, content []byte, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(content); err != nil {
		logger.Error("failed to write pdf response", "error", err)
	}
}
