// internal/search/pubmed-search/handler_test.go
package pubmedsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogger implements the Logger interface for testing
type TestLogger struct{}

func (l *TestLogger) Info(msg string, fields map[string]interface{})  {}
func (l *TestLogger) Warn(msg string, fields map[string]interface{})  {}
func (l *TestLogger) Error(msg string, fields map[string]interface{}) {}
func (l *TestLogger) With(fields map[string]interface{}) Logger       { return l }

func newTestHandler(t *testing.T, searchFn, fetchFn http.HandlerFunc) (*Handler, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/esearch", searchFn)
	mux.HandleFunc("/efetch", fetchFn)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.SearchURL = server.URL + "/esearch"
	config.FetchURL = server.URL + "/efetch"

	return NewHandler(config, nil, &TestLogger{}), server
}

func esearchBody(ids ...string) map[string]interface{} {
	if ids == nil {
		ids = []string{}
	}
	return map[string]interface{}{
		"esearchresult": map[string]interface{}{"idlist": ids},
	}
}

func TestExecuteFetchesAbstracts(t *testing.T) {
	var searchParams, fetchParams map[string][]string

	handler, _ := newTestHandler(t,
		func(w http.ResponseWriter, r *http.Request) {
			searchParams = r.URL.Query()
			json.NewEncoder(w).Encode(esearchBody("12345678", "23456789"))
		},
		func(w http.ResponseWriter, r *http.Request) {
			fetchParams = r.URL.Query()
			fmt.Fprint(w, "1. Statins reduce cardiovascular mortality.\n\n2. A meta-analysis of statin trials.")
		},
	)

	output, err := handler.Execute(context.Background(), &Input{Query: "statin efficacy"})
	require.NoError(t, err)

	assert.Equal(t, "pubmed", searchParams["db"][0])
	assert.Equal(t, "statin efficacy", searchParams["term"][0])
	assert.Equal(t, "json", searchParams["retmode"][0])
	assert.Equal(t, "5", searchParams["retmax"][0])
	assert.Equal(t, "relevance", searchParams["sort"][0])

	assert.Equal(t, "12345678,23456789", fetchParams["id"][0])
	assert.Equal(t, "text", fetchParams["retmode"][0])
	assert.Equal(t, "abstract", fetchParams["rettype"][0])

	assert.Equal(t, 2, output.TotalResults)
	assert.Contains(t, output.Abstracts, "Statins reduce cardiovascular mortality")
	assert.Equal(t, []string{
		"https://pubmed.ncbi.nlm.nih.gov/12345678/",
		"https://pubmed.ncbi.nlm.nih.gov/23456789/",
	}, output.Sources)
}

func TestExecuteNoArticlesFallbackText(t *testing.T) {
	handler, _ := newTestHandler(t,
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(esearchBody())
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("efetch must not be called when no articles matched")
		},
	)

	output, err := handler.Execute(context.Background(), &Input{Query: "xyzzy"})
	require.NoError(t, err)

	assert.Equal(t, 0, output.TotalResults)
	assert.Contains(t, output.Abstracts, "No PubMed articles found for the search query: 'xyzzy'")
	assert.Empty(t, output.Sources)
}

func TestExecuteFetchFailureKeepsSources(t *testing.T) {
	handler, _ := newTestHandler(t,
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(esearchBody("11111111"))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
	)

	output, err := handler.Execute(context.Background(), &Input{Query: "q"})
	require.NoError(t, err)

	assert.Contains(t, output.Abstracts, "Error fetching abstracts")
	assert.Equal(t, []string{"https://pubmed.ncbi.nlm.nih.gov/11111111/"}, output.Sources)
}

func TestExecuteSearchError(t *testing.T) {
	handler, _ := newTestHandler(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
		func(w http.ResponseWriter, r *http.Request) {},
	)

	_, err := handler.Execute(context.Background(), &Input{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestExecuteUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	searches := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch", func(w http.ResponseWriter, r *http.Request) {
		searches++
		json.NewEncoder(w).Encode(esearchBody("99999999"))
	})
	mux.HandleFunc("/efetch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "abstract text")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	config := DefaultConfig()
	config.SearchURL = server.URL + "/esearch"
	config.FetchURL = server.URL + "/efetch"

	handler := NewHandler(config, cache, &TestLogger{})

	_, err := handler.Execute(context.Background(), &Input{Query: "metformin"})
	require.NoError(t, err)

	second, err := handler.Execute(context.Background(), &Input{Query: "metformin"})
	require.NoError(t, err)

	assert.Equal(t, 1, searches)
	assert.Equal(t, "abstract text", second.Abstracts)
}
