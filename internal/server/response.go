package server

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope of every API response.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error describes a failed API call.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, encoding errors are best effort
	_ = json.NewEncoder(w).Encode(resp)
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Data: data})
}

func fail(w http.ResponseWriter, status int, code, message, details string) {
	writeJSON(w, status, Response{Error: &Error{Code: code, Message: message, Details: details}})
}

func badRequest(w http.ResponseWriter, message, details string) {
	fail(w, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func notFound(w http.ResponseWriter, message, details string) {
	fail(w, http.StatusNotFound, "NOT_FOUND", message, details)
}

func unavailable(w http.ResponseWriter, message, details string) {
	fail(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", message, details)
}

func internalError(w http.ResponseWriter, message string) {
	fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", message, "")
}
