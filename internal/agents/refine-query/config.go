// internal/agents/refine-query/config.go
package refinequery

import "time"

// Config holds the query refinement stage settings.
type Config struct {
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxRetries: 3,
		Timeout:    60 * time.Second,
	}
}
