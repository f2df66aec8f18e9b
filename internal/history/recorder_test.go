// internal/history/recorder_test.go
package history

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starksinclair/Multi-LLM-Agent-system/internal/pipeline"
)

// TestLogger implements the Logger interface for testing
type TestLogger struct{}

func (l *TestLogger) Info(msg string, fields map[string]interface{})  {}
func (l *TestLogger) Warn(msg string, fields map[string]interface{})  {}
func (l *TestLogger) Error(msg string, fields map[string]interface{}) {}
func (l *TestLogger) With(fields map[string]interface{}) Logger       { return l }

func newFakeElasticsearch(t *testing.T) (*elasticsearch.Client, chan string) {
	t.Helper()

	indexed := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		if strings.Contains(r.URL.Path, "/_doc/") {
			indexed <- r.URL.Path
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client, indexed
}

func TestRecordIndexesDespiteStoreFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectExec("INSERT INTO answer_history").WillReturnError(assert.AnError)

	client, indexed := newFakeElasticsearch(t)
	recorder := NewRecorder(NewStore(db, ""), NewIndex(client, "medical-answers"), &TestLogger{})

	recorder.Record(&pipeline.AgentResult{
		Question:    "what is anemia",
		FinalAnswer: "<p>answer</p>",
		Timestamp:   time.Now().UTC(),
	})

	select {
	case path := <-indexed:
		assert.Contains(t, path, "/medical-answers/_doc/")
	case <-time.After(5 * time.Second):
		t.Fatal("entry was not indexed after store failure")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordAssignsIDWithoutStore(t *testing.T) {
	client, indexed := newFakeElasticsearch(t)
	recorder := NewRecorder(nil, NewIndex(client, "medical-answers"), &TestLogger{})

	recorder.Record(&pipeline.AgentResult{
		Question:    "what is anemia",
		FinalAnswer: "<p>answer</p>",
		Timestamp:   time.Now().UTC(),
	})

	select {
	case path := <-indexed:
		id := strings.TrimPrefix(path, "/medical-answers/_doc/")
		assert.NotEmpty(t, id)
	case <-time.After(5 * time.Second):
		t.Fatal("entry was not indexed")
	}
}
