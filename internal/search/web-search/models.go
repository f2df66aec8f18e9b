// internal/search/web-search/models.go
package websearch

// Input is the refined query to search for.
type Input struct {
	Query string `json:"query"`
}

// Item is one organic search result.
type Item struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// Output is the stage result handed to the research agent.
type Output struct {
	Tool         string   `json:"tool"`
	Query        string   `json:"query"`
	Results      []Item   `json:"results"`
	Summary      string   `json:"summary"`
	Sources      []string `json:"sources"`
	TotalResults int      `json:"total_results"`
}
