// internal/agents/research/handler.go
package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starksinclair/Multi-LLM-Agent-system/internal/llm"
)

const (
	StageName = "research"

	systemPrompt = "You are a careful medical researcher. You summarize medical information from search results and scientific literature for educational purposes. You never invent facts and you always note when evidence is weak or contradictory."
)

var (
	ErrSynthesisFailed = errors.New("RESEARCH_SYNTHESIS_FAILED")
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

// Execute synthesizes a research summary from the question and the
// gathered search material.
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
				return nil, fmt.Errorf("%w: %w", ErrSynthesisFailed, ctx.Err())
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
			lastErr = fmt.Errorf("empty research content")
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesisFailed, lastErr)
	}

	h.logger.Info("research synthesis completed", map[string]interface{}{
		"provider":      resp.Provider,
		"contentLength": len(resp.Content),
	})

	return &Output{
		Content:  resp.Content,
		Provider: resp.Provider,
		Model:    resp.Model,
	}, nil
}

func (h *Handler) buildPrompt(input *Input) string {
	var b strings.Builder

	b.WriteString("Analyze this medical question and the refined search information provided.\n")
	b.WriteString("You have a strict limit of approximately 1000 tokens for the final output. Adjust detail level, brevity, and formatting accordingly to fit this constraint.\n\n")
	fmt.Fprintf(&b, "Original Question: %s\n\n", input.Question)
	fmt.Fprintf(&b, "Refined Search Query: %s\n\n", input.RefinedQuery)
	fmt.Fprintf(&b, "Web Search Results:\n%s\n\n", input.WebResults)
	fmt.Fprintf(&b, "Medical Literature (PubMed):\n%s\n\n", input.LiteratureResults)
	b.WriteString("Based on the search results, extract and summarize the most relevant and reliable medical information.\n")
	b.WriteString("Focus on information from reputable medical sources like Mayo Clinic, WebMD, NIH, or medical journals.\n\n")
	b.WriteString("Identify key points about:\n")
	b.WriteString("- Symptoms or conditions mentioned\n")
	b.WriteString("- Potential causes\n")
	b.WriteString("- Treatment options\n")
	b.WriteString("- When to seek medical care\n")
	b.WriteString("- If the search results are inconclusive, contradictory, or if information on a particular key point is scarce, state this clearly. Do not invent information. If the question is outside the scope of general medical knowledge, state that appropriately.\n\n")
	b.WriteString("Remember to emphasize that this information is for educational purposes only.")

	return b.String()
}
