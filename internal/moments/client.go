package moments

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Client abstracts the language-model endpoint so the extractor can be tested
// against a stub.
type Client interface {
	Generate(ctx context.Context, cfg ModelConfig, system, user string) (string, error)
}

type genaiClient struct{}

// NewClient returns the production Client backed by the genai SDK. A fresh
// API client is created per call because credentials arrive per request.
func NewClient() Client {
	return &genaiClient{}
}

func (c *genaiClient) Generate(ctx context.Context, cfg ModelConfig, system, user string) (string, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{
		// Low temperature keeps the structured output stable
		Temperature:       genai.Ptr[float32](0.3),
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
	}

	result, err := client.Models.GenerateContent(ctx, cfg.Model, genai.Text(user), genCfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text, nil
}
