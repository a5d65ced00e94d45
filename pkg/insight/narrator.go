package insight

import (
	"context"

	openaiNarrator "github.com/saurabhrpi/startup-ecosystem-intelligence/internal/transport/openai"
)

// Narrator writes a narrative for matches the ranking service returned without one.
// An empty result with a nil error means "nothing to say".
type Narrator interface {
	Narrate(ctx context.Context, query string, matches []Match) (string, error)
}

// OpenAINarrator returns a Narrator backed by an OpenAI-compatible chat completion API.
// baseURL may be empty for the default endpoint.
func OpenAINarrator(apiKey, baseURL, model string) Narrator {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return openaiNarrator.NewNarrator(&openaiNarrator.Config{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Model:       model,
		Temperature: 0.7,
		MaxTokens:   800,
	})
}
