package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abgdnv/giftshop/pkg/config"
	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("model returned no text")

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls a Gemini model through the Gemini API backend.
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	config  *genai.GenerateContentConfig
}

func NewGeminiGenerator(ctx context.Context, cfg config.GenAIConfig) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiGenerator{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		config: &genai.GenerateContentConfig{
			Temperature: genai.Ptr(cfg.Temperature),
			TopK:        genai.Ptr(cfg.TopK),
			TopP:        genai.Ptr(cfg.TopP),
		},
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
