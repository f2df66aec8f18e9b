// internal/search/web-search/handler.go
package websearch

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/starksinclair/Multi-LLM-Agent-system/internal/common/metrics"
)

const (
	StageName = "web-search"
)

var (
	ErrWebSearchTimeout = errors.New("WEB_SEARCH_TIMEOUT")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config *Config
	client *http.Client
	cache  *redis.Client
	logger Logger
}

// NewHandler creates the web search stage. cache may be nil, lookups are
// skipped in that case.
func NewHandler(config *Config, cache *redis.Client, log Logger) *Handler {
	return &Handler{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		cache: cache,
		logger: log.With(map[string]interface{}{
			"stage": StageName,
		}),
	}
}

// Execute runs a web search for the refined query. Zero results is not an
// error: the caller gets fallback text so the pipeline can continue.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if cached := h.cacheGet(ctx, input.Query); cached != nil {
		return cached, nil
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		return nil, err
	}

	h.cacheSet(ctx, input.Query, output)
	return output, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	query := strings.TrimSpace(h.config.Keyword + " " + input.Query)
	searchURL := h.buildSearchURL(query)

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded ||
			strings.Contains(err.Error(), "timeout") ||
			strings.Contains(err.Error(), "deadline") ||
			strings.Contains(err.Error(), "Client.Timeout") {
			return nil, ErrWebSearchTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d", resp.StatusCode)
	}

	var apiResponse struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
			Source  string `json:"source"`
		} `json:"organic_results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(apiResponse.OrganicResults))
	sources := make([]string, 0, len(apiResponse.OrganicResults))
	for _, r := range apiResponse.OrganicResults {
		if r.Link == "" {
			continue
		}
		items = append(items, Item{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
			Source:  r.Source,
		})
		sources = append(sources, r.Link)
	}

	h.logger.Info("web search completed", map[string]interface{}{
		"query":       query,
		"resultCount": len(items),
	})

	return &Output{
		Tool:         StageName,
		Query:        input.Query,
		Results:      items,
		Summary:      h.formatResults(input.Query, items),
		Sources:      sources,
		TotalResults: len(items),
	}, nil
}

func (h *Handler) buildSearchURL(query string) string {
	baseURL, _ := url.Parse(h.config.BaseURL)
	params := url.Values{}
	params.Add("q", query)
	params.Add("api_key", h.config.APIKey)
	params.Add("engine", h.config.Engine)
	params.Add("num", fmt.Sprintf("%d", h.config.MaxResults))
	params.Add("safe", "active")
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}

func (h *Handler) formatResults(query string, items []Item) string {
	if len(items) == 0 {
		return fmt.Sprintf("No web search results found for the query: '%s'. Try using different or more general search terms.", query)
	}

	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
		if item.Source != "" {
			fmt.Fprintf(&b, "Source: %s\n", item.Source)
		}
		if item.Snippet != "" {
			fmt.Fprintf(&b, "%s\n", item.Snippet)
		}
		fmt.Fprintf(&b, "URL: %s\n\n", item.URL)
	}
	return strings.TrimSpace(b.String())
}

func (h *Handler) cacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf("search:web:%x", sum[:8])
}

func (h *Handler) cacheGet(ctx context.Context, query string) *Output {
	if h.cache == nil {
		return nil
	}

	raw, err := h.cache.Get(ctx, h.cacheKey(query)).Result()
	if err != nil {
		if err != redis.Nil {
			h.logger.Warn("cache lookup failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		metrics.SearchCacheHits.WithLabelValues(StageName, "miss").Inc()
		return nil
	}

	var output Output
	if err := json.Unmarshal([]byte(raw), &output); err != nil {
		metrics.SearchCacheHits.WithLabelValues(StageName, "miss").Inc()
		return nil
	}

	metrics.SearchCacheHits.WithLabelValues(StageName, "hit").Inc()
	return &output
}

func (h *Handler) cacheSet(ctx context.Context, query string, output *Output) {
	if h.cache == nil {
		return
	}

	raw, err := json.Marshal(output)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, h.cacheKey(query), raw, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
