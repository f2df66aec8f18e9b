// internal/agents/refine-query/handler.go
package refinequery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starksinclair/Multi-LLM-Agent-system/internal/llm"
)

const (
	StageName = "refine-query"

	systemPrompt = "You are an expert medical search query optimizer. Your goal is to transform user questions into precise and effective search queries for medical research."
)

var (
	ErrRefinementFailed = errors.New("QUERY_REFINEMENT_FAILED")
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

// Execute turns the user question into a search-engine friendly query.
// The original question is always a usable fallback, so callers should
// treat an error here as a soft failure.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf("Original medical query: '%s'\n\nRefined medical query for search engine:", input.Question)

	var resp *llm.Response
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrRefinementFailed, ctx.Err())
			}
		}

		resp, lastErr = h.provider.Generate(ctx, llm.GenerateRequest{
			SystemPrompt: systemPrompt,
			Prompt:       prompt,
		})
		if lastErr == nil {
			break
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefinementFailed, lastErr)
	}

	refined := strings.TrimSpace(resp.Content)
	// The model sometimes wraps its output in quotes.
	if strings.HasPrefix(refined, `"`) && strings.HasSuffix(refined, `"`) && len(refined) >= 2 {
		refined = refined[1 : len(refined)-1]
	}
	if refined == "" {
		h.logger.Warn("refinement returned empty content, keeping original question", map[string]interface{}{
			"question": input.Question,
		})
		refined = input.Question
	}

	h.logger.Info("query refined", map[string]interface{}{
		"original": input.Question,
		"refined":  refined,
	})

	return &Output{
		RefinedQuery: refined,
		Provider:     h.provider.Name(),
		Model:        h.provider.ModelName(),
	}, nil
}
