package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the error payload returned by every endpoint.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Message: message,
		Status:  status,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
