package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const summaryPrompt = "Summarize the following public tender document in plain language, " +
	"in 120 words or less. Cover the scope of work, the buyer, the closing date and " +
	"any eligibility requirements that are mentioned."

// Summarizer produces short plain-language tender summaries via a chat
// completion API.
type Summarizer struct {
	client *openai.Client
	model  string
}

// NewSummarizer creates a summarizer. An empty baseURL uses the default API
// endpoint; setting it allows pointing at a compatible self-hosted model.
func NewSummarizer(apiKey, baseURL, model string) *Summarizer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	return &Summarizer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Summarize returns a short summary of the given tender text
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("nothing to summarize")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   256,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summaryPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
