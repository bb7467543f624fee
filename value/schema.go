package value

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateAgainstSchema checks v (re-serialized as JSON) against a JSON
// Schema document, the way the teacher's core/types validates decorator
// parameters (core/types/validation.go). Intended for tooling ahead of
// render (e.g. the CLI's lint subcommand) — never called on the render hot
// path, per §5's non-blocking requirement.
func ValidateAgainstSchema(v Value, schemaDoc []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaDoc)); err != nil {
		return fmt.Errorf("qentem: invalid schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("qentem: compile schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(Stringify(v, 15)), &doc); err != nil {
		return fmt.Errorf("qentem: re-marshal value for validation: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("qentem: schema validation: %w", err)
	}
	return nil
}
