package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/larsmarsfars/chatsite"
)

const (
	// maxNotesContextBytes bounds the serialized ingested notes appended
	// to the conversation, keeping prompts within model limits.
	maxNotesContextBytes = 12000

	// defaultImageQuery is used when the conversation has no user
	// message to derive an image query from.
	defaultImageQuery = "creative director portfolio"

	// askImageCount is how many illustrative images a reply carries.
	askImageCount = 4
)

type askRequest struct {
	Messages []chatsite.Message `json:"messages"`
	Ingested struct {
		Notes []chatsite.Note `json:"notes"`
	} `json:"ingested"`
}

type askResponse struct {
	Text   string          `json:"text"`
	Images []string        `json:"images"`
	Refs   json.RawMessage `json:"refs"`
}

// handleAsk runs one chat turn. Ingested notes, when provided, are
// appended to the conversation as a final user message so the model can
// ground its reply in crawled facts. Image lookup is best effort and
// never fails the turn.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.Chat == nil {
		s.Error(w, r, chatsite.Errorf(chatsite.EINVALID, "missing OPENAI_API_KEY credential"))
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Error(w, r, chatsite.Errorf(chatsite.EINVALID, "invalid JSON body"))
		return
	}
	if len(req.Messages) == 0 {
		s.Error(w, r, chatsite.Errorf(chatsite.EINVALID, "messages is required"))
		return
	}

	messages := make([]chatsite.Message, len(req.Messages))
	copy(messages, req.Messages)
	if len(req.Ingested.Notes) > 0 {
		if serialized, err := json.Marshal(req.Ingested.Notes); err == nil {
			notes := string(serialized)
			if len(notes) > maxNotesContextBytes {
				notes = notes[:maxNotesContextBytes]
			}
			messages = append(messages, chatsite.Message{
				Role:    chatsite.RoleUser,
				Content: "INGESTED NOTES (web summaries):\n" + notes,
			})
		}
	}

	text, err := s.Chat.Chat(r.Context(), messages)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	resp := askResponse{
		Text:   text,
		Images: s.searchImages(r.Context(), imageQuery(req.Messages)),
		Refs:   s.refs(),
	}
	respondJSON(w, resp)
}

// searchImages walks the fallback chain and returns the first non-empty
// result set. Provider errors are swallowed; images are decoration.
func (s *Server) searchImages(ctx context.Context, query string) []string {
	for _, searcher := range s.Images {
		urls, err := searcher.SearchImages(ctx, query, askImageCount)
		if err != nil || len(urls) == 0 {
			continue
		}
		return urls
	}
	return []string{}
}

// imageQuery derives an image search query from the most recent user
// message, falling back to a generic portfolio query.
func imageQuery(messages []chatsite.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == chatsite.RoleUser {
			if q := strings.TrimSpace(messages[i].Content); q != "" {
				return q
			}
		}
	}
	return defaultImageQuery
}

func (s *Server) refs() json.RawMessage {
	if len(s.Refs) > 0 {
		return s.Refs
	}
	return json.RawMessage(`[]`)
}
