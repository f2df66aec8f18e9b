// internal/agents/validate-answer/models.go
package validateanswer

// Input is the draft research answer to validate and format.
type Input struct {
	Question string `json:"question"`
	Draft    string `json:"draft"`
}

// Output is the validated HTML answer with its attribution.
type Output struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}
