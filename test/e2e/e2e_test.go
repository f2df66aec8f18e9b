// test/e2e/e2e_test.go
package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	refinequery "github.com/starksinclair/Multi-LLM-Agent-system/internal/agents/refine-query"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/agents/research"
	validateanswer "github.com/starksinclair/Multi-LLM-Agent-system/internal/agents/validate-answer"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/llm"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/pipeline"
	pubmedsearch "github.com/starksinclair/Multi-LLM-Agent-system/internal/search/pubmed-search"
	websearch "github.com/starksinclair/Multi-LLM-Agent-system/internal/search/web-search"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/server"
)

// TestLogger satisfies every package-level Logger interface used below.
type TestLogger struct{}

func (l TestLogger) Info(msg string, fields map[string]interface{})  {}
func (l TestLogger) Warn(msg string, fields map[string]interface{})  {}
func (l TestLogger) Error(msg string, fields map[string]interface{}) {}

type refineTestLog struct{ TestLogger }

func (l refineTestLog) With(fields map[string]interface{}) refinequery.Logger { return l }

type webTestLog struct{ TestLogger }

func (l webTestLog) With(fields map[string]interface{}) websearch.Logger { return l }

type pubmedTestLog struct{ TestLogger }

func (l pubmedTestLog) With(fields map[string]interface{}) pubmedsearch.Logger { return l }

type researchTestLog struct{ TestLogger }

func (l researchTestLog) With(fields map[string]interface{}) research.Logger { return l }

type validateTestLog struct{ TestLogger }

func (l validateTestLog) With(fields map[string]interface{}) validateanswer.Logger { return l }

type pipelineTestLog struct{ TestLogger }

func (l pipelineTestLog) With(fields map[string]interface{}) pipeline.Logger { return l }

type serverTestLog struct{ TestLogger }

func (l serverTestLog) With(fields map[string]interface{}) server.Logger { return l }

// fakeUpstreams spins up stand-ins for every external API the pipeline
// talks to.
type fakeUpstreams struct {
	gemini   *httptest.Server
	deepseek *httptest.Server
	serpapi  *httptest.Server
	pubmed   *httptest.Server
}

func newFakeUpstreams(t *testing.T) *fakeUpstreams {
	t.Helper()

	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		prompt := body.Contents[0].Parts[0].Text

		// The same fake serves the refiner and the validator.
		text := `"hypertension treatment guidelines"`
		if strings.Contains(prompt, "validating a medical response") {
			text = "<strong>Educational purposes only.</strong><h2>Treatment Options</h2><ul><li>Lifestyle changes</li></ul><strong>Educational purposes only.</strong>"
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				}},
			},
		})
	}))
	t.Cleanup(gemini.Close)

	deepseek := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{
					"role":    "assistant",
					"content": "Hypertension is managed through lifestyle changes and medication.",
				}},
			},
		})
	}))
	t.Cleanup(deepseek.Close)

	serpapi := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"organic_results": []map[string]string{
				{
					"title":   "High blood pressure - Mayo Clinic",
					"link":    "https://www.mayoclinic.org/hypertension",
					"snippet": "Lifestyle changes and medications lower blood pressure.",
					"source":  "Mayo Clinic",
				},
			},
		})
	}))
	t.Cleanup(serpapi.Close)

	pubmedMux := http.NewServeMux()
	pubmedMux.HandleFunc("/esearch", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"esearchresult": map[string]interface{}{"idlist": []string{"31234567"}},
		})
	})
	pubmedMux.HandleFunc("/efetch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "1. ACE inhibitors reduce cardiovascular events in hypertensive patients.")
	})
	pubmed := httptest.NewServer(pubmedMux)
	t.Cleanup(pubmed.Close)

	return &fakeUpstreams{gemini: gemini, deepseek: deepseek, serpapi: serpapi, pubmed: pubmed}
}

func newTestService(t *testing.T, up *fakeUpstreams, cache *redis.Client) http.Handler {
	t.Helper()

	gemini := llm.NewGemini(llm.GeminiConfig{
		BaseURL: up.gemini.URL, APIKey: "test", Temperature: 0.3, MaxTokens: 1000,
	})
	deepseek := llm.NewDeepSeek(llm.ChatConfig{
		BaseURL: up.deepseek.URL, APIKey: "test", MaxTokens: 1000,
	})

	refiner := refinequery.NewHandler(refinequery.DefaultConfig(), gemini, refineTestLog{})

	webConfig := websearch.DefaultConfig()
	webConfig.BaseURL = up.serpapi.URL
	webConfig.APIKey = "test"
	webSearch := websearch.NewHandler(webConfig, cache, webTestLog{})

	pubmedConfig := pubmedsearch.DefaultConfig()
	pubmedConfig.SearchURL = up.pubmed.URL + "/esearch"
	pubmedConfig.FetchURL = up.pubmed.URL + "/efetch"
	litSearch := pubmedsearch.NewHandler(pubmedConfig, cache, pubmedTestLog{})

	researcher := research.NewHandler(research.DefaultConfig(), deepseek, researchTestLog{})
	validator := validateanswer.NewHandler(validateanswer.DefaultConfig(), gemini, validateTestLog{})

	controller := pipeline.NewController(
		refiner, webSearch, litSearch, researcher, validator, nil, nil, pipelineTestLog{},
	)

	srv := server.New(server.Config{
		Address:        ":0",
		RequestTimeout: 30 * time.Second,
	}, controller, nil, nil, nil, serverTestLog{})

	return srv.Handler()
}

func TestQuestionEndToEnd(t *testing.T) {
	up := newFakeUpstreams(t)

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	handler := newTestService(t, up, cache)

	req := httptest.NewRequest(http.MethodPost, "/mcp",
		strings.NewReader(`{"query": "how do I treat high blood pressure?"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result pipeline.AgentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, "how do I treat high blood pressure?", result.Question)
	assert.Equal(t, "hypertension treatment guidelines", result.AgentResponses.QueryRefinement.Content)
	assert.Equal(t, "gemini", result.AgentResponses.QueryRefinement.Provider)

	assert.Equal(t, 1, result.SearchResults.Web.TotalResults)
	assert.Contains(t, result.SearchResults.Web.Summary, "Mayo Clinic")
	assert.Equal(t, []string{"https://pubmed.ncbi.nlm.nih.gov/31234567/"}, result.SearchResults.Literature.Sources)
	assert.Contains(t, result.SearchResults.Literature.Summary, "ACE inhibitors")

	assert.Equal(t, "deepseek", result.AgentResponses.Research.Provider)
	assert.Contains(t, result.AgentResponses.Research.Content, "lifestyle changes")

	assert.Contains(t, result.FinalAnswer, "<h2>Treatment Options</h2>")
	assert.Equal(t, result.AgentResponses.Validation.Content, result.FinalAnswer)
	assert.False(t, result.Timestamp.IsZero())
}

func TestQuestionEndToEndEmptyQuery(t *testing.T) {
	up := newFakeUpstreams(t)
	handler := newTestService(t, up, nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{"query": " "}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuestionEndToEndResearchOutage(t *testing.T) {
	up := newFakeUpstreams(t)

	// Replace the researcher backend with one that always fails.
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)
	up.deepseek = broken

	handler := newTestService(t, up, nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp",
		strings.NewReader(`{"query": "what causes migraines?"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Degraded, not failed: the caller still gets a complete result.
	require.Equal(t, http.StatusOK, rec.Code)

	var result pipeline.AgentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, pipeline.OverloadedMessage, result.FinalAnswer)
	assert.NotEmpty(t, result.AgentResponses.QueryRefinement.Content)
}
