// internal/agents/research/models.go
package research

// Input carries the question and the gathered search material.
type Input struct {
	Question          string `json:"question"`
	RefinedQuery      string `json:"refined_query"`
	WebResults        string `json:"web_results"`
	LiteratureResults string `json:"literature_results"`
}

// Output is the synthesized research summary with its attribution.
type Output struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}
