// internal/agents/refine-query/handler_test.go
package refinequery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "github.com/starksinclair/Multi-LLM-Agent-system/internal/common/errors"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/llm"
)

// TestLogger implements the Logger interface for testing
type TestLogger struct{}

func (l *TestLogger) Info(msg string, fields map[string]interface{})  {}
func (l *TestLogger) Warn(msg string, fields map[string]interface{})  {}
func (l *TestLogger) Error(msg string, fields map[string]interface{}) {}
func (l *TestLogger) With(fields map[string]interface{}) Logger       { return l }

type fakeProvider struct {
	responses []string
	errs      []error
	calls     int
	lastReq   llm.GenerateRequest
}

func (p *fakeProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.Response, error) {
	idx := p.calls
	p.calls++
	p.lastReq = req
	if idx < len(p.errs) && p.errs[idx] != nil {
		return nil, p.errs[idx]
	}
	content := ""
	if idx < len(p.responses) {
		content = p.responses[idx]
	}
	return &llm.Response{Content: content, Provider: p.Name(), Model: p.ModelName()}, nil
}

func (p *fakeProvider) Name() string      { return "gemini" }
func (p *fakeProvider) ModelName() string { return "gemini-2.0-flash" }

func TestExecuteRefinesQuery(t *testing.T) {
	provider := &fakeProvider{responses: []string{"hypertension treatment guidelines adults"}}
	handler := NewHandler(DefaultConfig(), provider, &TestLogger{})

	output, err := handler.Execute(context.Background(), &Input{Question: "how do I treat high blood pressure?"})
	require.NoError(t, err)

	assert.Equal(t, "hypertension treatment guidelines adults", output.RefinedQuery)
	assert.Equal(t, "gemini", output.Provider)
	assert.Equal(t, "gemini-2.0-flash", output.Model)
	assert.Contains(t, provider.lastReq.Prompt, "Original medical query: 'how do I treat high blood pressure?'")
	assert.Contains(t, provider.lastReq.SystemPrompt, "search query optimizer")
}

func TestExecuteStripsSurroundingQuotes(t *testing.T) {
	provider := &fakeProvider{responses: []string{`"diabetes type 2 symptoms"`}}
	handler := NewHandler(DefaultConfig(), provider, &TestLogger{})

	output, err := handler.Execute(context.Background(), &Input{Question: "what are diabetes symptoms"})
	require.NoError(t, err)

	assert.Equal(t, "diabetes type 2 symptoms", output.RefinedQuery)
}

func TestExecuteEmptyContentFallsBackToQuestion(t *testing.T) {
	provider := &fakeProvider{responses: []string{"   "}}
	handler := NewHandler(DefaultConfig(), provider, &TestLogger{})

	output, err := handler.Execute(context.Background(), &Input{Question: "what is anemia"})
	require.NoError(t, err)

	assert.Equal(t, "what is anemia", output.RefinedQuery)
}

func TestExecuteRetriesThenSucceeds(t *testing.T) {
	provider := &fakeProvider{
		errs:      []error{errors.New("transient"), errors.New("transient")},
		responses: []string{"", "", "refined"},
	}
	handler := NewHandler(DefaultConfig(), provider, &TestLogger{})

	output, err := handler.Execute(context.Background(), &Input{Question: "q"})
	require.NoError(t, err)

	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, "refined", output.RefinedQuery)
}

func TestExecuteExhaustedRetries(t *testing.T) {
	provider := &fakeProvider{
		errs: []error{errors.New("down"), errors.New("down"), errors.New("down"), errors.New("down")},
	}
	handler := NewHandler(DefaultConfig(), provider, &TestLogger{})

	_, err := handler.Execute(context.Background(), &Input{Question: "q"})
	assert.ErrorIs(t, err, ErrRefinementFailed)
	assert.Equal(t, 4, provider.calls)
}

func TestExecuteKeepsProviderErrorCode(t *testing.T) {
	rateLimited := stderrors.New(stderrors.ErrCodeRateLimited, "provider rate limit exceeded").WithRetryable(true)
	provider := &fakeProvider{errs: []error{rateLimited, rateLimited, rateLimited, rateLimited}}
	handler := NewHandler(DefaultConfig(), provider, &TestLogger{})

	_, err := handler.Execute(context.Background(), &Input{Question: "q"})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrRefinementFailed)
	assert.Equal(t, stderrors.ErrCodeRateLimited, stderrors.CodeOf(err))
	assert.True(t, stderrors.IsRetryable(err))
}
