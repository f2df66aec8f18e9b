// internal/search/web-search/config.go
package websearch

import "time"

// Config holds the web search stage settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Engine     string
	MaxResults int
	Timeout    time.Duration
	CacheTTL   time.Duration
	Keyword    string
}

// DefaultConfig returns config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://serpapi.com/search",
		Engine:     "google",
		MaxResults: 5,
		Timeout:    15 * time.Second,
		CacheTTL:   30 * time.Minute,
		Keyword:    "medical",
	}
}
