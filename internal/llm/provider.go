// internal/llm/provider.go
package llm

import "context"

// GenerateRequest carries one prompt to a provider.
type GenerateRequest struct {
	SystemPrompt string
	Prompt       string
}

// Response is a completed generation with its attribution.
type Response struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Provider is implemented by each LLM backend.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (*Response, error)
	Name() string
	ModelName() string
}
