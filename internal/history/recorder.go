// internal/history/recorder.go
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/starksinclair/Multi-LLM-Agent-system/internal/pipeline"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Recorder persists finished pipeline results asynchronously. Writes are
// best-effort: failures are logged and the request is never affected.
type Recorder struct {
	store   *Store
	index   *Index
	timeout time.Duration
	logger  Logger
}

// NewRecorder creates a recorder. Either store or index may be nil.
func NewRecorder(store *Store, index *Index, log Logger) *Recorder {
	return &Recorder{
		store:   store,
		index:   index,
		timeout: 10 * time.Second,
		logger: log.With(map[string]interface{}{
			"component": "history",
		}),
	}
}

// Record implements pipeline.Recorder.
func (r *Recorder) Record(result *pipeline.AgentResult) {
	entry := &Entry{
		ID:               uuid.New().String(),
		Question:         result.Question,
		RefinedQuery:     result.AgentResponses.QueryRefinement.Content,
		FinalAnswer:      result.FinalAnswer,
		ResearchProvider: result.AgentResponses.Research.Provider,
		CreatedAt:        result.Timestamp,
	}

	// The store and the index are written independently so one flaky
	// backend does not lose the other's copy.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if r.store != nil {
			if _, err := r.store.Save(ctx, entry); err != nil {
				r.logger.Warn("failed to save history entry", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		if r.index != nil {
			if err := r.index.Add(ctx, entry); err != nil {
				r.logger.Warn("failed to index history entry", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}()
}
