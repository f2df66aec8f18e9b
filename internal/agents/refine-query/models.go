// internal/agents/refine-query/models.go
package refinequery

// Input is the raw user question.
type Input struct {
	Question string `json:"question"`
}

// Output is the refined search query with its attribution.
type Output struct {
	RefinedQuery string `json:"refined_query"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
}
