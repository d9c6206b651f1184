package ai

import (
	"context"
	"fmt"
	"math"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatibleClient works with any provider exposing the OpenAI chat
// completions API, Groq included.
type OpenAICompatibleClient struct {
	client *openai.Client
	opts   Options
}

func NewOpenAICompatibleClient(baseURL, apiKey string, opts Options) *OpenAICompatibleClient {
	opts = opts.withDefaults()
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	return &OpenAICompatibleClient{
		client: openai.NewClientWithConfig(cfg),
		opts:   opts,
	}
}

func (c *OpenAICompatibleClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.opts.Model,
		Messages:    messages,
		Temperature: temperature(c.opts.Temperature),
		MaxTokens:   c.opts.MaxTokens,
		TopP:        c.opts.TopP,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// go-openai drops a zero temperature from the request body, which lets the
// provider apply its own default.
func temperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
