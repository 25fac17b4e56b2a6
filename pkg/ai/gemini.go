package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiConfig defines configuration options for the Gemini client.
type GeminiConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Logger    zerolog.Logger
}

// GeminiClient implements Client against the Gemini generateContent API.
type GeminiClient struct {
	cfg        GeminiConfig
	httpClient *http.Client
	tracer     trace.Tracer
	logger     zerolog.Logger
}

// NewGeminiClient builds a new client using the provided configuration.
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &GeminiClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		tracer:     otel.Tracer("github.com/trace-ai/trace-api/pkg/ai"),
		logger:     logger,
	}, nil
}

// ReviewCode asks the model for a structured review and returns the raw reply.
func (c *GeminiClient) ReviewCode(ctx context.Context, code, language string) (string, error) {
	prompt := reviewSystemPrompt + "\n\n" + buildReviewPrompt(code, language)
	return c.generate(ctx, "review", prompt, 0.3)
}

// ConsultantChat forwards a follow-up question together with the review context.
func (c *GeminiClient) ConsultantChat(ctx context.Context, input ChatInput) (string, error) {
	prompt := consultantSystemPrompt + "\n\n" + buildConsultantPrompt(input)
	return c.generate(ctx, "chat", prompt, 0.7)
}

func (c *GeminiClient) generate(parent context.Context, mode, prompt string, temperature float64) (string, error) {
	ctx, span := c.tracer.Start(parent, "gemini."+mode, trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	content, err := c.doGenerate(ctx, prompt, temperature)
	requestDuration.WithLabelValues("gemini", mode).Observe(time.Since(start).Seconds())
	if err != nil {
		requestFailures.WithLabelValues("gemini", mode).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("gemini %s: %w", mode, err)
	}

	return content, nil
}

func (c *GeminiClient) doGenerate(ctx context.Context, prompt string, temperature float64) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)

	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &geminiGenConfig{
			Temperature:     temperature,
			MaxOutputTokens: c.cfg.MaxTokens,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var content string
	for _, part := range result.Candidates[0].Content.Parts {
		content += part.Text
	}

	return content, nil
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}
