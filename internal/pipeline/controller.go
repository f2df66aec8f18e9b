// internal/pipeline/controller.go
package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	stderrors "github.com/starksinclair/Multi-LLM-Agent-system/internal/common/errors"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/common/metrics"

	refinequery "github.com/starksinclair/Multi-LLM-Agent-system/internal/agents/refine-query"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/agents/research"
	validateanswer "github.com/starksinclair/Multi-LLM-Agent-system/internal/agents/validate-answer"
	pubmedsearch "github.com/starksinclair/Multi-LLM-Agent-system/internal/search/pubmed-search"
	websearch "github.com/starksinclair/Multi-LLM-Agent-system/internal/search/web-search"
)

// OverloadedMessage is returned in place of research and validation
// content when the synthesis providers are unavailable.
const OverloadedMessage = "The medical answer service is currently overloaded. Please try your question again in a few minutes."

var (
	// ErrEmptyQuestion is the only pipeline error surfaced to the caller
	// as a client fault.
	ErrEmptyQuestion = stderrors.New(stderrors.ErrCodeEmptyQuestion, "question must not be empty")
)

// Refiner turns a raw question into a search query.
type Refiner interface {
	Execute(ctx context.Context, input *refinequery.Input) (*refinequery.Output, error)
}

// WebSearcher runs the general web search.
type WebSearcher interface {
	Execute(ctx context.Context, input *websearch.Input) (*websearch.Output, error)
}

// LiteratureSearcher runs the biomedical literature search.
type LiteratureSearcher interface {
	Execute(ctx context.Context, input *pubmedsearch.Input) (*pubmedsearch.Output, error)
}

// Researcher synthesizes a draft answer from the search material.
type Researcher interface {
	Execute(ctx context.Context, input *research.Input) (*research.Output, error)
}

// Validator enforces safety rules and formats the final HTML answer.
type Validator interface {
	Execute(ctx context.Context, input *validateanswer.Input) (*validateanswer.Output, error)
}

// Recorder persists a finished result. Implementations must be
// best-effort, persistence never blocks or fails a request.
type Recorder interface {
	Record(result *AgentResult)
}

// Tracker records spans and question-level telemetry. May be nil.
type Tracker interface {
	StartSpan(ctx context.Context, name string) (context.Context, func())
	RecordQuestionProcessed(ctx context.Context, status string)
	RecordQuestionDuration(ctx context.Context, duration time.Duration, status string)
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Controller orchestrates the question pipeline: refinement, the search
// fan-out, research synthesis, and answer validation.
type Controller struct {
	refiner    Refiner
	webSearch  WebSearcher
	litSearch  LiteratureSearcher
	researcher Researcher
	validator  Validator
	recorder   Recorder
	tracker    Tracker
	logger     Logger
}

func NewController(
	refiner Refiner,
	webSearch WebSearcher,
	litSearch LiteratureSearcher,
	researcher Researcher,
	validator Validator,
	recorder Recorder,
	tracker Tracker,
	log Logger,
) *Controller {
	return &Controller{
		refiner:    refiner,
		webSearch:  webSearch,
		litSearch:  litSearch,
		researcher: researcher,
		validator:  validator,
		recorder:   recorder,
		tracker:    tracker,
		logger: log.With(map[string]interface{}{
			"component": "pipeline",
		}),
	}
}

// Process runs the question through every stage and always produces a
// complete AgentResult when the question is non-empty. Stage failures
// degrade to fallback content instead of failing the request.
func (c *Controller) Process(ctx context.Context, question string) (*AgentResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	metrics.QuestionsInFlight.Inc()
	defer metrics.QuestionsInFlight.Dec()

	if c.tracker != nil {
		var end func()
		ctx, end = c.tracker.StartSpan(ctx, "pipeline.process")
		defer end()
	}

	start := time.Now()
	c.logger.Info("processing question", map[string]interface{}{
		"question": question,
	})

	refinement := c.refine(ctx, question)
	searchResults := c.searchFanOut(ctx, refinement.Content)

	result := &AgentResult{
		Question:      question,
		SearchResults: searchResults,
		AgentResponses: AgentResponses{
			QueryRefinement: refinement,
		},
		Timestamp: time.Now().UTC(),
	}

	researchStart := time.Now()
	researchOut, err := c.researcher.Execute(ctx, &research.Input{
		Question:          question,
		RefinedQuery:      refinement.Content,
		WebResults:        searchResults.Web.Summary,
		LiteratureResults: searchResults.Literature.Summary,
	})
	metrics.StageDuration.WithLabelValues(research.StageName).Observe(time.Since(researchStart).Seconds())
	if err != nil {
		metrics.StageFailed.WithLabelValues(research.StageName, stderrors.CodeOf(err)).Inc()
		c.logger.Error("research synthesis failed", map[string]interface{}{
			"error": err.Error(),
		})
		c.finish(ctx, result, OverloadedMessage, start, "degraded")
		return result, nil
	}
	metrics.StageCompleted.WithLabelValues(research.StageName).Inc()
	result.AgentResponses.Research = AgentResponse{
		Content:  researchOut.Content,
		Provider: researchOut.Provider,
		Model:    researchOut.Model,
	}

	validationStart := time.Now()
	validationOut, err := c.validator.Execute(ctx, &validateanswer.Input{
		Question: question,
		Draft:    researchOut.Content,
	})
	metrics.StageDuration.WithLabelValues(validateanswer.StageName).Observe(time.Since(validationStart).Seconds())
	if err != nil {
		metrics.StageFailed.WithLabelValues(validateanswer.StageName, stderrors.CodeOf(err)).Inc()
		c.logger.Error("answer validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		c.finish(ctx, result, OverloadedMessage, start, "degraded")
		return result, nil
	}
	metrics.StageCompleted.WithLabelValues(validateanswer.StageName).Inc()
	result.AgentResponses.Validation = AgentResponse{
		Content:  validationOut.Content,
		Provider: validationOut.Provider,
		Model:    validationOut.Model,
	}

	c.finish(ctx, result, validationOut.Content, start, "success")
	return result, nil
}

func (c *Controller) finish(ctx context.Context, result *AgentResult, finalAnswer string, start time.Time, outcome string) {
	result.FinalAnswer = finalAnswer
	if outcome == "degraded" {
		if result.AgentResponses.Research.Content == "" {
			result.AgentResponses.Research = AgentResponse{Content: finalAnswer}
		}
		result.AgentResponses.Validation = AgentResponse{Content: finalAnswer}
	}

	metrics.QuestionsProcessed.WithLabelValues(outcome).Inc()
	if c.tracker != nil {
		c.tracker.RecordQuestionProcessed(ctx, outcome)
		c.tracker.RecordQuestionDuration(ctx, time.Since(start), outcome)
	}
	c.logger.Info("question processed", map[string]interface{}{
		"outcome":  outcome,
		"duration": time.Since(start).String(),
	})

	if c.recorder != nil {
		c.recorder.Record(result)
	}
}

// refine runs the refinement stage. The original question is the
// fallback when refinement fails.
func (c *Controller) refine(ctx context.Context, question string) AgentResponse {
	start := time.Now()
	out, err := c.refiner.Execute(ctx, &refinequery.Input{Question: question})
	metrics.StageDuration.WithLabelValues(refinequery.StageName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StageFailed.WithLabelValues(refinequery.StageName, stderrors.CodeOf(err)).Inc()
		c.logger.Warn("query refinement failed, using original question", map[string]interface{}{
			"error": err.Error(),
		})
		return AgentResponse{Content: question}
	}
	metrics.StageCompleted.WithLabelValues(refinequery.StageName).Inc()
	return AgentResponse{
		Content:  out.RefinedQuery,
		Provider: out.Provider,
		Model:    out.Model,
	}
}

// searchFanOut runs both searches concurrently. Either side may fail
// without failing the fan-out; the failed side carries fallback text.
func (c *Controller) searchFanOut(ctx context.Context, refinedQuery string) SearchResults {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results SearchResults
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		start := time.Now()
		out, err := c.webSearch.Execute(ctx, &websearch.Input{Query: refinedQuery})
		metrics.StageDuration.WithLabelValues(websearch.StageName).Observe(time.Since(start).Seconds())

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			metrics.StageFailed.WithLabelValues(websearch.StageName, searchErrorCode(err)).Inc()
			c.logger.Warn("web search failed", map[string]interface{}{
				"error": err.Error(),
			})
			results.Web = fallbackSearchResult(websearch.StageName, refinedQuery,
				"Web search is temporarily unavailable. The answer below is based on other sources.")
			return
		}
		metrics.StageCompleted.WithLabelValues(websearch.StageName).Inc()
		items := make([]SearchItem, len(out.Results))
		for i, r := range out.Results {
			items[i] = SearchItem{Title: r.Title, URL: r.URL, Snippet: r.Snippet, Source: r.Source}
		}
		results.Web = SearchResult{
			Tool:         out.Tool,
			Query:        out.Query,
			Results:      items,
			Summary:      out.Summary,
			Sources:      out.Sources,
			TotalResults: out.TotalResults,
		}
	}()

	go func() {
		defer wg.Done()
		start := time.Now()
		out, err := c.litSearch.Execute(ctx, &pubmedsearch.Input{Query: refinedQuery})
		metrics.StageDuration.WithLabelValues(pubmedsearch.StageName).Observe(time.Since(start).Seconds())

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			metrics.StageFailed.WithLabelValues(pubmedsearch.StageName, searchErrorCode(err)).Inc()
			c.logger.Warn("literature search failed", map[string]interface{}{
				"error": err.Error(),
			})
			results.Literature = fallbackSearchResult(pubmedsearch.StageName, refinedQuery,
				"Medical literature search is temporarily unavailable. The answer below is based on other sources.")
			return
		}
		metrics.StageCompleted.WithLabelValues(pubmedsearch.StageName).Inc()
		items := make([]SearchItem, len(out.Sources))
		for i, src := range out.Sources {
			items[i] = SearchItem{Title: "PubMed article", URL: src, Source: "PubMed"}
		}
		results.Literature = SearchResult{
			Tool:         out.Tool,
			Query:        out.Query,
			Results:      items,
			Summary:      out.Abstracts,
			Sources:      out.Sources,
			TotalResults: out.TotalResults,
		}
	}()

	wg.Wait()
	return results
}

func fallbackSearchResult(tool, query, summary string) SearchResult {
	return SearchResult{
		Tool:    tool,
		Query:   query,
		Results: []SearchItem{},
		Summary: summary,
		Sources: []string{},
	}
}

func searchErrorCode(err error) string {
	switch {
	case errors.Is(err, websearch.ErrWebSearchTimeout):
		return stderrors.ErrCodeWebSearchTimeout
	case errors.Is(err, pubmedsearch.ErrLiteratureSearchTimeout):
		return stderrors.ErrCodeLiteratureSearchFailed
	default:
		return stderrors.CodeOf(err)
	}
}
