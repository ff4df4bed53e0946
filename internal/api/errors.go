package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every failed API request
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error messages shared with the browser console
const (
	msgMalformedRequest = "Malformed request"
	msgCommandTooLong   = "Command too long"
	msgInvalidEmail     = "Invalid email"
	msgTooManyRequests  = "Too many requests"
	msgMethodNotAllowed = "Method not allowed"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	s.writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
