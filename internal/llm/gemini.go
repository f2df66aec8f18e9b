// internal/llm/gemini.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	stderrors "github.com/starksinclair/Multi-LLM-Agent-system/internal/common/errors"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/common/httpclient"
)

// GeminiConfig holds the settings for the Gemini REST backend.
type GeminiConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// GeminiProvider calls the generateContent REST endpoint directly.
type GeminiProvider struct {
	config GeminiConfig
	client *httpclient.Client
}

func NewGemini(cfg GeminiConfig) *GeminiProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &GeminiProvider{
		config: cfg,
		client: httpclient.NewClient(cfg.Timeout),
	}
}

func (p *GeminiProvider) Name() string      { return "gemini" }
func (p *GeminiProvider) ModelName() string { return p.config.Model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (p *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (*Response, error) {
	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: req.Prompt}}},
		},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}
	body.GenerationConfig.Temperature = p.config.Temperature
	body.GenerationConfig.MaxOutputTokens = p.config.MaxTokens

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		p.config.BaseURL, p.config.Model, p.config.APIKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, stderrors.Wrap(err, stderrors.ErrCodeProviderUnavailable, "gemini request failed").WithRetryable(true)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gemini response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, stderrors.New(stderrors.ErrCodeRateLimited, "gemini rate limit exceeded").WithRetryable(true)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, stderrors.New(stderrors.ErrCodeProviderUnavailable,
			fmt.Sprintf("gemini returned status %d", resp.StatusCode)).
			WithRetryable(resp.StatusCode >= 500).
			WithMetadata("body", string(raw))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse gemini response: %w", err)
	}
	if parsed.Error != nil {
		return nil, stderrors.New(stderrors.ErrCodeProviderUnavailable, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, stderrors.New(stderrors.ErrCodeProviderUnavailable, "gemini returned no candidates")
	}

	return &Response{
		Content:  parsed.Candidates[0].Content.Parts[0].Text,
		Provider: p.Name(),
		Model:    p.config.Model,
	}, nil
}
