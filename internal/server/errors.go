package server

import (
	"encoding/json"
	"net/http"
)

// apiError is the structured error envelope returned to clients.
type apiError struct {
	Error   string         `json:"error"`
	Code    string         `json:"error_code"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	writeJSON(w, status, apiError{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
