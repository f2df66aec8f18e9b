// internal/agents/validate-answer/config.go
package validateanswer

import "time"

// Config holds the answer validation stage settings.
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
