package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/metrics"
)

// Prompt limits.
const (
	maxDirect          = 3
	maxConnected       = 3
	directDescRunes    = 150
	connectedDescRunes = 100
)

const systemPrompt = "You are an AI analyst specializing in startup ecosystems. " +
	"You excel at finding hidden connections and providing strategic insights. " +
	"Focus on being specific and actionable."

// Narrator writes a narrative over matches with an OpenAI-compatible chat completion API.
type Narrator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// Config holds the narrator settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Logger      *zap.Logger
}

// NewNarrator creates an OpenAI-compatible narrator.
func NewNarrator(cfg *Config) *Narrator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	lg := cfg.Logger
	if lg == nil {
		lg = zap.NewNop()
	}

	return &Narrator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      lg,
	}
}

// Narrate asks the model for a narrative about matches in the context of query.
func (n *Narrator) Narrate(ctx context.Context, query string, matches []match.Match) (string, error) {
	if len(matches) == 0 {
		return "", nil
	}

	req := openai.ChatCompletionRequest{
		Model: n.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(query, matches)},
		},
		Temperature: n.temperature,
		MaxTokens:   n.maxTokens,
	}

	start := time.Now()
	resp, err := n.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.NarratorRequestsTotal.WithLabelValues(n.model, "error").Inc()
		return "", parseAPIError(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.NarratorRequestsTotal.WithLabelValues(n.model, "empty").Inc()
		return "", fmt.Errorf("empty completion: %w", domain.ErrNarratorError)
	}

	metrics.NarratorRequestsTotal.WithLabelValues(n.model, "success").Inc()
	n.logger.Debug("Narrative generated",
		zap.String("model", n.model),
		zap.Duration("duration", duration),
		zap.Int("matches", len(matches)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

// buildPrompt lists the top direct hits, then the top graph-expanded ones with their paths.
func buildPrompt(query string, matches []match.Match) string {
	var direct, connected []*match.Match
	for i := range matches {
		if matches[i].Connection() == nil {
			direct = append(direct, &matches[i])
		} else {
			connected = append(connected, &matches[i])
		}
	}

	var b strings.Builder
	b.WriteString("Based on the following search results from our startup ecosystem knowledge graph, ")
	b.WriteString("provide an insightful response to the user's query. Focus on:\n")
	b.WriteString("1. Directly answering the query\n")
	b.WriteString("2. Highlighting interesting connections between entities\n")
	b.WriteString("3. Providing actionable insights\n")
	b.WriteString("4. Mentioning specific names and relationships\n\n")
	fmt.Fprintf(&b, "User Query: %s\n\nSearch Results:\n", query)

	if len(direct) > 0 {
		b.WriteString("**Direct Matches:**\n")
		for i, m := range direct[:min(maxDirect, len(direct))] {
			fmt.Fprintf(&b, "%d. **%s** (%s)\n", i+1, nameOf(m), m.Type())
			if d := m.Metadata().Description; d != "" {
				fmt.Fprintf(&b, "   - %s\n", truncate(d, directDescRunes))
			}
			fmt.Fprintf(&b, "   - Relevance Score: %.2f\n", m.Score())
		}
	}

	if len(connected) > 0 {
		b.WriteString("\n**Related Entities (discovered through connections):**\n")
		for _, m := range connected[:min(maxConnected, len(connected))] {
			fmt.Fprintf(&b, "- **%s** (connected via %s)\n", nameOf(m), strings.Join(m.Connection().Path, " → "))
			if d := m.Metadata().Description; d != "" {
				fmt.Fprintf(&b, "  %s\n", truncate(d, connectedDescRunes))
			}
		}
	}

	b.WriteString("\nProvide a comprehensive yet concise response (max 3-4 paragraphs).")
	return b.String()
}

func nameOf(m *match.Match) string {
	if name := m.DisplayName(); name != "" {
		return name
	}
	return "Unknown"
}

func truncate(s string, runes int) string {
	if utf8.RuneCountInString(s) <= runes {
		return s
	}
	return string([]rune(s)[:runes]) + "..."
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrNarratorError.
func parseAPIError(err error) error {
	wrap := domain.ErrNarratorError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("chat API error %d: %w", reqErr.HTTPStatusCode, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("chat request: %w: %w", wrap, err)
	}
	return fmt.Errorf("chat request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
