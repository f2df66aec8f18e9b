// internal/agents/validate-answer/handler.go
package validateanswer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starksinclair/Multi-LLM-Agent-system/internal/llm"
)

const (
	StageName = "validate-answer"

	systemPrompt = "You are a medical content safety reviewer. You check draft answers for safety, accuracy, and tone, and you format them for display to a general audience. You never provide diagnoses or treatment advice."
)

var (
	ErrValidationFailed = errors.New("ANSWER_VALIDATION_FAILED")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config   *Config
	provider llm.Provider
	logger   Logger
}

func NewHandler(config *Config, provider llm.Provider, log Logger) *Handler {
	return &Handler{
		config:   config,
		provider: provider,
		logger: log.With(map[string]interface{}{
			"stage": StageName,
		}),
	}
}

// Execute runs the safety checks over the draft and returns the final
// HTML answer.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	prompt := h.buildPrompt(input)

	var resp *llm.Response
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ctx.Err())
			}
		}

		resp, lastErr = h.provider.Generate(ctx, llm.GenerateRequest{
			SystemPrompt: systemPrompt,
			Prompt:       prompt,
		})
		if lastErr == nil && strings.TrimSpace(resp.Content) != "" {
			break
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("empty validation content")
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, lastErr)
	}

	content := stripCodeFence(resp.Content)

	h.logger.Info("answer validated", map[string]interface{}{
		"provider":      resp.Provider,
		"contentLength": len(content),
	})

	return &Output{
		Content:  content,
		Provider: resp.Provider,
		Model:    resp.Model,
	}, nil
}

func (h *Handler) buildPrompt(input *Input) string {
	var b strings.Builder

	b.WriteString("You are validating a medical response to ensure it meets safety and quality standards before presenting it to users.\n\n")
	b.WriteString("You have a strict limit of approximately 1000 tokens for the final output. Adjust detail level, brevity, and formatting accordingly to fit this constraint.\n\n")
	b.WriteString("Here is the draft response:\n\n")
	b.WriteString(input.Draft)
	b.WriteString("\n\nPerform the following checks:\n")
	b.WriteString("1. Do not provide specific medical diagnoses or treatment advice.\n")
	b.WriteString("2. Include a strong disclaimer advising users to consult a qualified healthcare professional.\n")
	b.WriteString("3. Ensure the content is safe, medically accurate, and educational, not misleading or harmful.\n")
	b.WriteString("4. Use clear, concise language suitable for a general audience. Briefly explain any medical terms if needed.\n")
	b.WriteString("5. Keep the content focused and avoid unnecessary elaboration.\n\n")
	b.WriteString("Once validated, transform the response into an HTML snippet with in-line CSS styles for display in a user interface, just include the html don't add ```html.\n\n")
	b.WriteString("Formatting instructions:\n")
	b.WriteString("- Use <h2> tags for section headings like Symptoms, Potential Causes, Treatment Options, When to Seek Medical Care\n")
	b.WriteString("- Use bullet points (<ul><li>) for readability where appropriate\n")
	b.WriteString("- Place the following strong disclaimer at both the top and bottom:\n\n")
	b.WriteString("<strong>This information is for educational purposes only and should not be considered medical advice. Always consult a qualified healthcare professional for diagnosis and treatment.</strong>\n\n")
	b.WriteString("Only return the final HTML output. Do not include explanation or additional commentary.")

	return b.String()
}

// stripCodeFence removes a markdown fence the model may wrap the HTML in
// despite being told not to.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```html")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
