package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// WriteJSON writes a JSON response with the given status code and data.
// Sets Content-Type to application/json before writing the status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // Write error intentionally ignored in response helper
}

// errorResponse is the standard error response format.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a standard error response with the given status code,
// error code, and human-readable message.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// writeInternalError logs err with the failing operation and writes a
// generic 500 so storage details never reach the client.
func writeInternalError(w http.ResponseWriter, log logrus.FieldLogger, where string, err error) {
	log.WithFields(logrus.Fields{
		"where": where,
		"error": err.Error(),
	}).Error("internal error")
	WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}
