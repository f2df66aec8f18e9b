// internal/search/pubmed-search/handler.go
package pubmedsearch

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/starksinclair/Multi-LLM-Agent-system/internal/common/metrics"
)

const (
	StageName = "pubmed-search"
)

var (
	ErrLiteratureSearchTimeout = errors.New("LITERATURE_SEARCH_TIMEOUT")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config       *Config
	searchClient *http.Client
	fetchClient  *http.Client
	cache        *redis.Client
	logger       Logger
}

// NewHandler creates the literature search stage. cache may be nil.
func NewHandler(config *Config, cache *redis.Client, log Logger) *Handler {
	return &Handler{
		config: config,
		searchClient: &http.Client{
			Timeout: config.SearchTimeout,
		},
		fetchClient: &http.Client{
			Timeout: config.FetchTimeout,
		},
		cache: cache,
		logger: log.With(map[string]interface{}{
			"stage": StageName,
		}),
	}
}

// Execute searches PubMed and fetches abstracts for the matched articles.
// Zero matches is not an error: the caller gets fallback text.
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
	ids, err := h.searchIDs(ctx, input.Query)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return &Output{
			Tool:  StageName,
			Query: input.Query,
			Abstracts: fmt.Sprintf(
				"No PubMed articles found for the search query: '%s'. Try using different or more general medical terms.",
				input.Query),
			Sources: []string{},
		}, nil
	}

	sources := make([]string, len(ids))
	for i, id := range ids {
		sources[i] = fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", id)
	}

	abstracts, err := h.fetchAbstracts(ctx, ids)
	if err != nil {
		// Articles matched but fetching their text failed. Keep the
		// sources so the answer can still cite them.
		h.logger.Warn("abstract fetch failed", map[string]interface{}{
			"error": err.Error(),
		})
		abstracts = fmt.Sprintf("Error fetching abstracts: %v", err)
	}

	h.logger.Info("literature search completed", map[string]interface{}{
		"query":        input.Query,
		"articleCount": len(ids),
	})

	return &Output{
		Tool:         StageName,
		Query:        input.Query,
		Abstracts:    abstracts,
		Sources:      sources,
		TotalResults: len(ids),
	}, nil
}

func (h *Handler) searchIDs(ctx context.Context, query string) ([]string, error) {
	searchURL, _ := url.Parse(h.config.SearchURL)
	params := url.Values{}
	params.Add("db", "pubmed")
	params.Add("term", query)
	params.Add("retmode", "json")
	params.Add("retmax", fmt.Sprintf("%d", h.config.MaxResults))
	params.Add("sort", "relevance")
	searchURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.searchClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, ErrLiteratureSearchTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pubmed search returned %d", resp.StatusCode)
	}

	var apiResponse struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, err
	}

	return apiResponse.ESearchResult.IDList, nil
}

func (h *Handler) fetchAbstracts(ctx context.Context, ids []string) (string, error) {
	fetchURL, _ := url.Parse(h.config.FetchURL)
	params := url.Values{}
	params.Add("db", "pubmed")
	params.Add("id", strings.Join(ids, ","))
	params.Add("retmode", "text")
	params.Add("rettype", "abstract")
	fetchURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", fetchURL.String(), nil)
	if err != nil {
		return "", err
	}

	resp, err := h.fetchClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", ErrLiteratureSearchTimeout
		}
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pubmed fetch returned %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(raw)), nil
}

func isTimeout(ctx context.Context, err error) bool {
	return ctx.Err() == context.DeadlineExceeded ||
		strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "deadline") ||
		strings.Contains(err.Error(), "Client.Timeout")
}

func (h *Handler) cacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf("search:pubmed:%x", sum[:8])
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
