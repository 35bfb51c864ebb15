package http

import (
	"encoding/json"
	"net/http"

	"github.com/larsmarsfars/chatsite"
	"github.com/larsmarsfars/chatsite/crawl"
)

type ingestResponse struct {
	Notes   []chatsite.Note         `json:"notes"`
	Gallery []chatsite.GalleryImage `json:"gallery"`
	Cached  bool                    `json:"cached"`
	Offline bool                    `json:"offline,omitempty"`
}

// handleIngest runs one crawl+summarize pass, or serves the cached
// result when it is still fresh. Responses carry an entity tag derived
// from the result content so clients can revalidate cheaply.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req chatsite.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Error(w, r, chatsite.Errorf(chatsite.EINVALID, "invalid JSON body"))
		return
	}
	if len(req.URLs) == 0 && len(req.Queries) == 0 {
		s.Error(w, r, chatsite.Errorf(chatsite.EINVALID, "provide at least one url or query"))
		return
	}

	result, cached, err := s.Ingester.Ingest(r.Context(), req)
	if err != nil {
		s.Metrics.ObserveIngest("error")
		s.Error(w, r, err)
		return
	}

	switch {
	case cached:
		s.Metrics.ObserveIngest("cached")
	case result.Offline:
		s.Metrics.ObserveIngest("offline")
	default:
		s.Metrics.ObserveIngest("fresh")
	}

	etag := `"` + crawl.Fingerprint(result) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	resp := ingestResponse{
		Notes:   result.Notes,
		Gallery: result.Gallery,
		Cached:  cached,
		Offline: result.Offline,
	}
	if resp.Notes == nil {
		resp.Notes = []chatsite.Note{}
	}
	if resp.Gallery == nil {
		resp.Gallery = []chatsite.GalleryImage{}
	}
	respondJSON(w, resp)
}
