// internal/search/pubmed-search/models.go
package pubmedsearch

// Input is the refined query to search the literature for.
type Input struct {
	Query string `json:"query"`
}

// Output is the stage result handed to the research agent.
type Output struct {
	Tool         string   `json:"tool"`
	Query        string   `json:"query"`
	Abstracts    string   `json:"abstracts"`
	Sources      []string `json:"sources"`
	TotalResults int      `json:"total_results"`
}
