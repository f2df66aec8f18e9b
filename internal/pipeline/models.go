// internal/pipeline/models.go
package pipeline

import "time"

// AgentResponse is the uniform wrapper for one LLM call's output.
type AgentResponse struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// AgentResponses gathers the responses from each pipeline role.
type AgentResponses struct {
	QueryRefinement AgentResponse `json:"query_refinement"`
	Research        AgentResponse `json:"research"`
	Validation      AgentResponse `json:"validation"`
}

// SearchItem is one result entry from either search backend.
type SearchItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// SearchResult is the outcome of one search backend call.
type SearchResult struct {
	Tool         string       `json:"tool"`
	Query        string       `json:"query"`
	Results      []SearchItem `json:"results"`
	Summary      string       `json:"summary"`
	Sources      []string     `json:"sources"`
	TotalResults int          `json:"total_results"`
}

// SearchResults pairs the two concurrent search calls.
type SearchResults struct {
	Web        SearchResult `json:"web"`
	Literature SearchResult `json:"literature"`
}

// AgentResult is the complete outcome of processing one question.
type AgentResult struct {
	Question       string         `json:"question"`
	SearchResults  SearchResults  `json:"search_results"`
	AgentResponses AgentResponses `json:"agent_responses"`
	FinalAnswer    string         `json:"final_answer"`
	Timestamp      time.Time      `json:"timestamp"`
}
