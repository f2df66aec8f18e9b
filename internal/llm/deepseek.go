// internal/llm/deepseek.go
package llm

import "time"

// NewDeepSeek creates a provider for the DeepSeek reasoner. DeepSeek
// exposes the chat completions protocol, so this reuses ChatProvider.
func NewDeepSeek(cfg ChatConfig) *ChatProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepseek.com"
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek-reasoner"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.Timeout == 0 {
		// Reasoning models think before they answer.
		cfg.Timeout = 120 * time.Second
	}
	return newChatProvider("deepseek", cfg)
}
