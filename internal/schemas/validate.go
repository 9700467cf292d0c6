// Package schemas validates parsed CV documents against the embedded JSON
// schema. Violations are advisory: the pipeline surfaces them as warnings
// and proceeds with whatever content is present.
package schemas

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/cv-portal/internal/types"
)

//go:embed parsed_cv.schema.json
var parsedCVSchema string

// ValidateParsedCV checks a parsed CV against the schema and returns one
// human-readable violation per problem. A nil CV or a broken schema load
// reports a single violation rather than failing the caller.
func ValidateParsedCV(cv *types.ParsedCV) []string {
	if cv == nil {
		return []string{"parsed CV is missing"}
	}

	schemaLoader := gojsonschema.NewStringLoader(parsedCVSchema)
	docLoader := gojsonschema.NewGoLoader(cv)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return []string{fmt.Sprintf("schema validation unavailable: %v", err)}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	sort.Strings(violations)
	return violations
}
