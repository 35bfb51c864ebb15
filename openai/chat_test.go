package openai_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/larsmarsfars/chatsite"
	"github.com/larsmarsfars/chatsite/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_passes_conversation_through(t *testing.T) {
	t.Parallel()

	fake := &fakeOpenAI{respond: func(_ int, req completionRequest) (string, int) {
		return "hello from the model", http.StatusOK
	}}
	srv := fake.server(t)

	c := openai.NewChat(newTestClient(srv))
	text, err := c.Chat(context.Background(), []chatsite.Message{
		{Role: chatsite.RoleSystem, Content: "you are a portfolio assistant"},
		{Role: chatsite.RoleUser, Content: "what did Lars make?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello from the model", text)

	req := fake.request(0)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "what did Lars make?", req.Messages[1].Content)
	assert.InDelta(t, 0.5, req.Temperature, 0.001)
}

func TestChat_upstream_error_is_EUPSTREAM(t *testing.T) {
	t.Parallel()

	fake := &fakeOpenAI{respond: func(int, completionRequest) (string, int) {
		return "", http.StatusTooManyRequests
	}}
	srv := fake.server(t)

	c := openai.NewChat(newTestClient(srv))
	_, err := c.Chat(context.Background(), []chatsite.Message{
		{Role: chatsite.RoleUser, Content: "hi"},
	})

	require.Error(t, err)
	assert.Equal(t, chatsite.EUPSTREAM, chatsite.ErrorCode(err))
}
