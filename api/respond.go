package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with aggressive no-cache headers; every
// game endpoint serves live data that must never be cached by the platform.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// sendError sends an error response
func sendError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// parseTimeParam accepts a timestamp as epoch milliseconds or RFC3339.
func parseTimeParam(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ms, true
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UnixMilli(), true
	}

	return 0, false
}
