// internal/server/schema.go
package server

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// questionSchema validates the /mcp request body.
const questionSchema = `{
	"type": "object",
	"properties": {
		"query": {
			"type": "string",
			"minLength": 1,
			"maxLength": 2000
		}
	},
	"required": ["query"],
	"additionalProperties": false
}`

var questionSchemaLoader = gojsonschema.NewStringLoader(questionSchema)

// validateQuestionBody checks the raw request body against the schema.
func validateQuestionBody(body []byte) error {
	result, err := gojsonschema.Validate(questionSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if !result.Valid() {
		if len(result.Errors()) > 0 {
			return fmt.Errorf("invalid request: %s", result.Errors()[0].String())
		}
		return fmt.Errorf("invalid request body")
	}
	return nil
}
