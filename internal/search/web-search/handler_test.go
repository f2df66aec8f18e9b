// internal/search/web-search/handler_test.go
package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

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

func serpResponse(results ...map[string]string) map[string]interface{} {
	organic := make([]map[string]string, 0, len(results))
	organic = append(organic, results...)
	return map[string]interface{}{"organic_results": organic}
}

func TestExecuteReturnsResults(t *testing.T) {
	var gotQuery url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(serpResponse(
			map[string]string{
				"title":   "Hypertension - Mayo Clinic",
				"link":    "https://www.mayoclinic.org/hypertension",
				"snippet": "High blood pressure is a common condition.",
				"source":  "Mayo Clinic",
			},
			map[string]string{
				"title":   "High Blood Pressure - CDC",
				"link":    "https://www.cdc.gov/bloodpressure",
				"snippet": "Facts about high blood pressure.",
				"source":  "CDC",
			},
		))
	}))
	defer server.Close()

	config := DefaultConfig()
	config.BaseURL = server.URL
	config.APIKey = "test-key"

	handler := NewHandler(config, nil, &TestLogger{})

	output, err := handler.Execute(context.Background(), &Input{Query: "hypertension treatment guidelines"})
	require.NoError(t, err)

	assert.Equal(t, "medical hypertension treatment guidelines", gotQuery.Get("q"))
	assert.Equal(t, "test-key", gotQuery.Get("api_key"))
	assert.Equal(t, "google", gotQuery.Get("engine"))
	assert.Equal(t, "5", gotQuery.Get("num"))
	assert.Equal(t, "active", gotQuery.Get("safe"))

	assert.Equal(t, 2, output.TotalResults)
	assert.Equal(t, "Hypertension - Mayo Clinic", output.Results[0].Title)
	assert.Equal(t, "https://www.mayoclinic.org/hypertension", output.Results[0].URL)
	assert.Contains(t, output.Summary, "Mayo Clinic")
	assert.Contains(t, output.Summary, "https://www.cdc.gov/bloodpressure")
	assert.Equal(t, []string{"https://www.mayoclinic.org/hypertension", "https://www.cdc.gov/bloodpressure"}, output.Sources)
}

func TestExecuteNoResultsFallbackText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(serpResponse())
	}))
	defer server.Close()

	config := DefaultConfig()
	config.BaseURL = server.URL
	config.APIKey = "test-key"

	handler := NewHandler(config, nil, &TestLogger{})

	output, err := handler.Execute(context.Background(), &Input{Query: "xyzzy"})
	require.NoError(t, err)

	assert.Equal(t, 0, output.TotalResults)
	assert.Contains(t, output.Summary, "No web search results found for the query: 'xyzzy'")
}

func TestExecuteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.BaseURL = server.URL

	handler := NewHandler(config, nil, &TestLogger{})

	_, err := handler.Execute(context.Background(), &Input{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestExecuteTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.BaseURL = server.URL
	config.Timeout = 50 * time.Millisecond

	handler := NewHandler(config, nil, &TestLogger{})

	_, err := handler.Execute(context.Background(), &Input{Query: "q"})
	assert.ErrorIs(t, err, ErrWebSearchTimeout)
}

func TestExecuteUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(serpResponse(
			map[string]string{"title": "t", "link": "https://example.org/a", "snippet": "s", "source": "src"},
		))
	}))
	defer server.Close()

	config := DefaultConfig()
	config.BaseURL = server.URL
	config.APIKey = "test-key"

	handler := NewHandler(config, cache, &TestLogger{})

	first, err := handler.Execute(context.Background(), &Input{Query: "diabetes symptoms"})
	require.NoError(t, err)

	second, err := handler.Execute(context.Background(), &Input{Query: "diabetes symptoms"})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.Summary, second.Summary)
}
