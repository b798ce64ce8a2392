// Package validation checks incoming research requests against the
// request schema before they reach the pipeline. Validation failures are
// advisory: the resolver repairs whatever it can, so a failed check only
// produces warnings for the caller's logs.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// researchRequestSchema mirrors the invocation contract of the HTTP layer.
var researchRequestSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"question": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"audience": map[string]interface{}{
			"type": "string",
		},
		"numInterviews": map[string]interface{}{
			"type":    "number",
			"minimum": 1,
			"maximum": 50,
		},
		"numQuestions": map[string]interface{}{
			"type":    "number",
			"minimum": 1,
		},
		"providerCredential": map[string]interface{}{
			"type": "string",
		},
	},
	"additionalProperties": true,
}

// ValidationResult reports schema conformance of a raw request.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings,omitempty"`
}

// CheckResearchRequest validates a raw request payload against the
// research request schema.
func CheckResearchRequest(payload map[string]interface{}) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewGoLoader(researchRequestSchema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed to run: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Warnings = append(out.Warnings, desc.String())
	}
	return out, nil
}
