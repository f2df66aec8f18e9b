// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	stderrors "github.com/starksinclair/Multi-LLM-Agent-system/internal/common/errors"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/history"
)

type questionRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to write response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, stderrors.HTTPStatus(err), errorResponse{
		Error: err.Error(),
		Code:  stderrors.CodeOf(err),
	})
}

// handleQuestion is POST /mcp: the main question-answering endpoint.
func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		s.writeError(w, stderrors.New(stderrors.ErrCodeInvalidInput, "failed to read request body"))
		return
	}

	if err := validateQuestionBody(body); err != nil {
		s.writeError(w, stderrors.Wrap(err, stderrors.ErrCodeInvalidInput, "invalid request"))
		return
	}

	var req questionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, stderrors.New(stderrors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	result, err := s.processor.Process(ctx, req.Query)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// The root mux pattern matches everything; unknown paths are 404s.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexPage)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, aboutPage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady checks the backing dependencies registered at startup.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := map[string]string{}
	healthy := true

	for name, check := range s.readyChecks {
		if err := check(ctx); err != nil {
			status[name] = "unavailable: " + err.Error()
			healthy = false
		} else {
			status[name] = "ok"
		}
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, status)
}

// handleHistory is GET /history: recent answered questions from Postgres.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "history is not enabled"})
		return
	}

	limit := s.config.MaxRecent
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("history query failed", map[string]interface{}{
			"error": err.Error(),
		})
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load history"})
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	s.writeJSON(w, http.StatusOK, entries)
}

// handleHistorySearch is GET /history/search?q=...: full-text search over
// answered questions in Elasticsearch.
func (s *Server) handleHistorySearch(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "history search is not enabled"})
		return
	}

	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query parameter q is required"})
		return
	}

	entries, err := s.index.Search(r.Context(), term, s.config.MaxRecent)
	if err != nil {
		s.logger.Error("history search failed", map[string]interface{}{
			"error": err.Error(),
		})
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to search history"})
		return
	}

	s.writeJSON(w, http.StatusOK, entries)
}
