package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/larsmarsfars/chatsite"
)

type imagesRequest struct {
	Query string `json:"q"`
}

type imagesResponse struct {
	URLs []string `json:"urls"`
}

// handleImages searches the provider chain for illustrative images. An
// empty result is a valid 200 response, not an error.
func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	var req imagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Error(w, r, chatsite.Errorf(chatsite.EINVALID, "invalid JSON body"))
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = defaultImageQuery
	}

	respondJSON(w, imagesResponse{URLs: s.searchImages(r.Context(), query)})
}
