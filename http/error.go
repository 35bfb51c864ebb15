package http

import (
	"encoding/json"
	"net/http"

	"github.com/larsmarsfars/chatsite"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	chatsite.EINVALID:     http.StatusBadRequest,
	chatsite.ENOTFOUND:    http.StatusNotFound,
	chatsite.EUNAVAILABLE: http.StatusServiceUnavailable,
	chatsite.EUPSTREAM:    http.StatusBadGateway,
	chatsite.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status for an application error code.
func ErrorStatusCode(code string) int {
	if status, ok := codes[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// errorResponse is the wire form of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// Error writes an application error as a JSON response. Internal errors
// are logged; their details are not leaked to the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := chatsite.ErrorCode(err), chatsite.ErrorMessage(err)
	if code == chatsite.EINTERNAL {
		s.Logger.Error("internal error", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ErrorStatusCode(code))
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// respondJSON writes a 200 JSON response.
func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
