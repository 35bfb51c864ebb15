package openai

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/larsmarsfars/chatsite"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultChunkBytes is the per-chunk budget for summarization input.
const DefaultChunkBytes = 45000

// summarizeTemperature keeps extraction deterministic-ish; embellishment
// is exactly what the prompts forbid.
const summarizeTemperature = 0.1

const chunkInstruction = `Extract sharp, factual notes for a creative portfolio.
KEEP PROPER NOUNS (project names, collaborators, agencies, brands), years, roles, awards only if explicit, and a one-line "how it worked".
Return 6-10 compact bullets, no fluff.`

const fuseInstruction = `Fuse into one crisp fact-pack for a portfolio assistant.
Keep: project names, collaborators (credit first), role, what was made, where/when, verifiable outcomes.
Output 8-14 bullets. No generic adjectives. No speculation.`

// Ensure Summarizer implements chatsite.Summarizer at compile time.
var _ chatsite.Summarizer = (*Summarizer)(nil)

// Summarizer condenses page text into one consolidated fact note via
// chunked completion calls followed by a fuse pass.
type Summarizer struct {
	client     *Client
	chunkBytes int
}

// SummarizerOption configures a Summarizer.
type SummarizerOption func(*Summarizer)

// WithChunkBytes overrides the chunk size. Defaults to DefaultChunkBytes.
func WithChunkBytes(n int) SummarizerOption {
	return func(s *Summarizer) {
		if n > 0 {
			s.chunkBytes = n
		}
	}
}

// NewSummarizer creates a Summarizer on top of the given client.
func NewSummarizer(client *Client, opts ...SummarizerOption) *Summarizer {
	s := &Summarizer{
		client:     client,
		chunkBytes: DefaultChunkBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize splits text into chunks, summarizes each, then fuses the
// partial summaries into one note. A failed chunk contributes an empty
// partial rather than failing the page; a failed fuse degrades to the
// newline-joined partials. Chunk calls run sequentially so the fuse
// pass sees partials in document order. Only context cancellation is
// returned as an error.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	var partials []string
	for _, chunk := range splitChunks(text, s.chunkBytes) {
		out, err := s.client.complete(ctx, summarizeTemperature, []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: chunkInstruction},
			{Role: openai.ChatMessageRoleUser, Content: chunk},
		})
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			partials = append(partials, "")
			continue
		}
		partials = append(partials, out)
	}

	fused, err := s.client.complete(ctx, summarizeTemperature, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: fuseInstruction},
		{Role: openai.ChatMessageRoleUser, Content: strings.Join(partials, "\n\n")},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return strings.Join(partials, "\n"), nil
	}
	return fused, nil
}

// splitChunks slices text into contiguous pieces of at most size bytes,
// backing boundaries up so a multi-byte rune is never split across
// chunks.
func splitChunks(text string, size int) []string {
	if text == "" {
		return nil
	}
	var chunks []string
	for start := 0; start < len(text); {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		for end > start && !utf8.RuneStart(text[end]) {
			end--
		}
		if end == start {
			// size is smaller than the rune at start; take it whole.
			_, n := utf8.DecodeRuneInString(text[start:])
			end = start + n
		}
		chunks = append(chunks, text[start:end])
		start = end
	}
	return chunks
}
