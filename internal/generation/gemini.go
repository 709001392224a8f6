// Package generation provides the text-generation collaborator client.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/genai"

	"github.com/learnscope/learnscope/internal/adapt"
)

var errEmptyResponse = errors.New("model returned empty response")

// Ensure GeminiClient implements the engine's collaborator interface.
var _ adapt.Generator = (*GeminiClient)(nil)

// GeminiClient generates text via the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

// DefaultGeminiConfig returns default configuration.
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		Model:       "gemini-2.0-flash",
		Temperature: 0.4,
	}
}

// NewGeminiClient creates a Gemini-backed generator. The API key is required;
// failing fast here keeps a misconfigured deployment from looking healthy.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiConfig().Model
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	logger.Info("Connected to Gemini text-generation service", "model", cfg.Model)

	return &GeminiClient{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

// Generate sends a prompt and returns the model's text. The caller is
// expected to bound ctx with a timeout.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(c.temperature),
		})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}
