package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware" // For RequestID
)

// ErrorResponse writes the standard JSON error envelope including request ID
// and timestamp.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	ErrorResponseWithDetails(w, r, status, message, "")
}

// ErrorResponseWithDetails is ErrorResponse with an extra details field,
// used when an upstream failure message is worth surfacing.
func ErrorResponseWithDetails(w http.ResponseWriter, r *http.Request, status int, message, details string) {
	reqID := middleware.GetReqID(r.Context())
	resp := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": reqID,
	}
	if details != "" {
		resp["details"] = details
	}
	WriteJSONResponse(w, r, status, resp)
}

// WriteJSONResponse encodes the data to JSON and writes the response header and body.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	js, err := json.Marshal(data)
	if err != nil {
		reqID := middleware.GetReqID(r.Context())
		slog.ErrorContext(r.Context(), "Failed to marshal JSON response",
			slog.Any("error", err),
			slog.String("request_id", reqID),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Set headers *before* writing status or body
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	if err != nil {
		// Client already received the status code, nothing left to do but log.
		reqID := middleware.GetReqID(r.Context())
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", reqID),
		)
	}
}
