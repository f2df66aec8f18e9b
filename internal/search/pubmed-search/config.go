// internal/search/pubmed-search/config.go
package pubmedsearch

import "time"

// Config holds the literature search stage settings.
type Config struct {
	SearchURL     string
	FetchURL      string
	MaxResults    int
	SearchTimeout time.Duration
	FetchTimeout  time.Duration
	CacheTTL      time.Duration
}

// DefaultConfig returns config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		SearchURL:     "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi",
		FetchURL:      "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi",
		MaxResults:    5,
		SearchTimeout: 10 * time.Second,
		FetchTimeout:  15 * time.Second,
		CacheTTL:      30 * time.Minute,
	}
}
