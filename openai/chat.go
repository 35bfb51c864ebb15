package openai

import (
	"context"

	"github.com/larsmarsfars/chatsite"
	openai "github.com/sashabaranov/go-openai"
)

// chatTemperature leaves the assistant some voice for conversation,
// unlike the near-deterministic summarization passes.
const chatTemperature = 0.5

// Ensure Chat implements chatsite.ChatService at compile time.
var _ chatsite.ChatService = (*Chat)(nil)

// Chat answers conversations with a single chat completion.
type Chat struct {
	client *Client
}

// NewChat creates a Chat service on top of the given client.
func NewChat(client *Client) *Chat {
	return &Chat{client: client}
}

// Chat sends the conversation as-is and returns the completion text.
// Upstream failures surface as EUPSTREAM errors carrying the provider
// status for diagnostics.
func (c *Chat) Chat(ctx context.Context, messages []chatsite.Message) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return c.client.complete(ctx, chatTemperature, msgs)
}
