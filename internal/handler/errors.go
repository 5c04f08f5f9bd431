package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorResponse is the JSON error envelope every non-2xx endpoint returns.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "login failed: Invalid email or password" → "Invalid email or password"
func unwrapMessage(err error, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if strings.HasPrefix(msg, prefix) && len(msg) > len(prefix) {
		return msg[len(prefix):]
	}
	return msg
}
