// internal/history/store.go
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one answered question as persisted.
type Entry struct {
	ID               string    `json:"id"`
	Question         string    `json:"question"`
	RefinedQuery     string    `json:"refined_query"`
	FinalAnswer      string    `json:"final_answer"`
	ResearchProvider string    `json:"research_provider"`
	CreatedAt        time.Time `json:"created_at"`
}

// Store persists answered questions in PostgreSQL.
type Store struct {
	db    *sql.DB
	table string
}

func NewStore(db *sql.DB, table string) *Store {
	if table == "" {
		table = "answer_history"
	}
	return &Store{db: db, table: table}
}

// Save inserts one entry and returns its generated id.
func (s *Store) Save(ctx context.Context, entry *Entry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, question, refined_query, final_answer, research_provider, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`, s.table)

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.Question, entry.RefinedQuery, entry.FinalAnswer,
		entry.ResearchProvider, entry.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to save history entry: %w", err)
	}

	return entry.ID, nil
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(
		`SELECT id, question, refined_query, final_answer, research_provider, created_at
		 FROM %s ORDER BY created_at DESC LIMIT $1`, s.table)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Question, &e.RefinedQuery, &e.FinalAnswer,
			&e.ResearchProvider, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
