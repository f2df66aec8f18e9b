// cmd/tools/registry-check/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/starksinclair/Multi-LLM-Agent-system/pkg/registry"
)

const registrySchema = `{
	"type": "object",
	"properties": {
		"version": {"type": "string"},
		"lastUpdated": {"type": "string"},
		"agents": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"role": {"type": "string", "minLength": 1},
					"displayName": {"type": "string"},
					"description": {"type": "string"},
					"provider": {"type": "string", "enum": ["gemini", "deepseek", "openai"]},
					"model": {"type": "string", "minLength": 1},
					"temperature": {"type": "number", "minimum": 0, "maximum": 2},
					"maxTokens": {"type": "integer", "minimum": 1},
					"systemPrompt": {"type": "string"},
					"timeout": {"type": "string"},
					"retries": {"type": "integer", "minimum": 0}
				},
				"required": ["role", "provider", "model"]
			}
		}
	},
	"required": ["version", "agents"]
}`

func main() {
	path := flag.String("path", "configs/agents.json", "Path to agent registry file")
	flag.Parse()

	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Printf("Error reading registry: %v\n", err)
		os.Exit(1)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(registrySchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		fmt.Printf("Error validating registry: %v\n", err)
		os.Exit(1)
	}
	if !result.Valid() {
		fmt.Println("Registry is invalid:")
		for _, desc := range result.Errors() {
			fmt.Printf("  - %s\n", desc)
		}
		os.Exit(1)
	}

	var reg registry.AgentRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		fmt.Printf("Error parsing registry: %v\n", err)
		os.Exit(1)
	}

	// Every pipeline role must be assigned exactly once.
	required := []string{"query-refiner", "researcher", "validator"}
	seen := map[string]int{}
	for _, agent := range reg.Agents {
		seen[agent.Role]++
	}
	ok := true
	for _, role := range required {
		switch seen[role] {
		case 0:
			fmt.Printf("Missing role: %s\n", role)
			ok = false
		case 1:
		default:
			fmt.Printf("Duplicate role: %s\n", role)
			ok = false
		}
	}
	if !ok {
		os.Exit(1)
	}

	fmt.Printf("Registry %s is valid: %d agents, version %s\n", *path, len(reg.Agents), reg.Version)
}
