// internal/agents/research/config.go
package research

import "time"

// Config holds the research synthesis stage settings.
type Config struct {
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxRetries: 3,
		Timeout:    120 * time.Second,
	}
}
