// Package gemini implements the completion client on Google Gemini.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Client is a CompletionClient implementation using Google Gemini
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	logger *zap.Logger
}

// NewClient creates a new Gemini client
func NewClient(apiKey, modelName string, maxTokens int, logger *zap.Logger) (*Client, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"

	return &Client{
		client: client,
		model:  model,
		name:   modelName,
		logger: logger,
	}, nil
}

// Close closes the underlying Gemini client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Complete sends the prompt and returns the raw completion text. The
// system prompt is prepended to the user turn; the shared model handle
// is never mutated, so concurrent calls within a batch are safe.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(systemPrompt+"\n\n"+userPrompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	content := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	c.logger.Debug("Completion received",
		zap.String("model", c.name),
		zap.Int("content_length", len(content)))

	return content, nil
}
