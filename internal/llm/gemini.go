package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiClient completes prompts with the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return &GeminiClient{model: cfg.Model}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  cfg.Model,
	}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.client == nil {
		return "", ErrNotConfigured
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.User), config)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil {
		return "", nil
	}
	return strings.TrimSpace(resp.Text()), nil
}
