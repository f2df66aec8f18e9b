// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*AgentRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg AgentRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// FindRole returns the agent configured for a role.
func (r *AgentRegistry) FindRole(role string) (*Agent, error) {
	for i := range r.Agents {
		if r.Agents[i].Role == role {
			return &r.Agents[i], nil
		}
	}
	return nil, fmt.Errorf("role %q not found in registry", role)
}
