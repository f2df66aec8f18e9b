// internal/llm/openai.go
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

// ChatConfig holds the settings for an OpenAI-style chat completions backend.
type ChatConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// ChatProvider speaks the chat completions protocol. OpenAI and DeepSeek
// both use it, only base URL and model differ.
type ChatProvider struct {
	name   string
	config ChatConfig
	client *httpclient.Client
}

func NewOpenAI(cfg ChatConfig) *ChatProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &ChatProvider{
		name:   "openai",
		config: cfg,
		client: httpclient.NewClient(cfg.Timeout),
	}
}

func newChatProvider(name string, cfg ChatConfig) *ChatProvider {
	return &ChatProvider{
		name:   name,
		config: cfg,
		client: httpclient.NewClient(cfg.Timeout),
	}
}

func (p *ChatProvider) Name() string      { return p.name }
func (p *ChatProvider) ModelName() string { return p.config.Model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (p *ChatProvider) Generate(ctx context.Context, req GenerateRequest) (*Response, error) {
	messages := make([]chatMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload, err := json.Marshal(chatRequest{
		Model:       p.config.Model,
		Messages:    messages,
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := p.config.BaseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, stderrors.Wrap(err, stderrors.ErrCodeProviderUnavailable,
			fmt.Sprintf("%s request failed", p.name)).WithRetryable(true)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", p.name, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, stderrors.New(stderrors.ErrCodeRateLimited,
			fmt.Sprintf("%s rate limit exceeded", p.name)).WithRetryable(true)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, stderrors.New(stderrors.ErrCodeProviderUnavailable,
			fmt.Sprintf("%s returned status %d", p.name, resp.StatusCode)).
			WithRetryable(resp.StatusCode >= 500).
			WithMetadata("body", string(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", p.name, err)
	}
	if parsed.Error != nil {
		return nil, stderrors.New(stderrors.ErrCodeProviderUnavailable, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, stderrors.New(stderrors.ErrCodeProviderUnavailable,
			fmt.Sprintf("%s returned no choices", p.name))
	}

	return &Response{
		Content:  parsed.Choices[0].Message.Content,
		Provider: p.name,
		Model:    p.config.Model,
	}, nil
}
