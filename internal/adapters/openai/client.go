// Package openai implements the completion client on OpenAI-compatible
// chat endpoints, including OpenRouter.
package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client is a CompletionClient implementation using the OpenAI chat
// completion API.
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewClient creates a Client. Alternative OpenAI-compatible endpoints
// (e.g. OpenRouter) are selected through the underlying client's
// configuration; extra headers for such endpoints are set on the
// transport by the factory.
func NewClient(client *openai.Client, model string, maxTokens int, logger *zap.Logger) *Client {
	return &Client{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Complete sends the prompt and returns the raw completion text.
// Sampling is deterministic (temperature 0) and the output-token
// budget is capped; a JSON-object response format is requested.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from completion service")
	}

	c.logger.Debug("Completion received",
		zap.String("model", c.model),
		zap.String("id", resp.ID),
		zap.Int("content_length", len(resp.Choices[0].Message.Content)))

	return resp.Choices[0].Message.Content, nil
}
