// pkg/registry/schema.go
package registry

type AgentRegistry struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"lastUpdated"`
	Agents      []Agent `json:"agents"`
}

type Agent struct {
	Role         string   `json:"role"`
	DisplayName  string   `json:"displayName"`
	Description  string   `json:"description"`
	Provider     string   `json:"provider"`
	Model        string   `json:"model"`
	Temperature  float64  `json:"temperature"`
	MaxTokens    int      `json:"maxTokens"`
	SystemPrompt string   `json:"systemPrompt"`
	Timeout      string   `json:"timeout"`
	Retries      int      `json:"retries"`
	ErrorCodes   []string `json:"errorCodes"`
	Tags         []string `json:"tags"`
}
