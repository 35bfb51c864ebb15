package chatsite

import "context"

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation roles understood by the chat endpoint.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatService answers a conversation with a single completion.
// Grounding context (ingested notes) is appended by the caller as a
// trailing user message before the call.
type ChatService interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
