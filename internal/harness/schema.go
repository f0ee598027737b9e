package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Schema is the JSON Schema (Draft 2020-12) for a suite document.
// YAML suites are checked against it before decoding.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/roach88/numcheck/suite.schema.json",
  "title": "numcheck suite",
  "description": "A named, ordered list of parse cases folded into one pass flag",
  "type": "object",
  "required": ["name", "description", "cases"],
  "additionalProperties": false,
  "properties": {
    "name": {
      "type": "string",
      "pattern": "^[A-Za-z0-9_.-]+$"
    },
    "description": {
      "type": "string",
      "minLength": 1
    },
    "cases": {
      "type": "array",
      "minItems": 1,
      "items": { "$ref": "#/$defs/Case" }
    }
  },
  "$defs": {
    "Case": {
      "type": "object",
      "required": ["call", "input", "expect"],
      "additionalProperties": false,
      "properties": {
        "call": { "enum": ["parseInt", "parseFloat"] },
        "input": { "type": "string" },
        "radix": { "type": "integer" },
        "expect": {
          "oneOf": [
            { "type": "number" },
            { "type": "string", "pattern": "^(NaN|[+-]?Infinity|[+-]?([0-9]+\\.?[0-9]*|\\.[0-9]+)([eE][+-]?[0-9]+)?)$" }
          ]
        }
      },
      "if": { "properties": { "call": { "const": "parseFloat" } } },
      "then": { "not": { "required": ["radix"] } }
    }
  }
}`

// ErrSchemaViolation marks documents that parse but do not match Schema.
var ErrSchemaViolation = errors.New("schema validation failed")

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func suiteSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		sch, err := jsonschema.UnmarshalJSON(strings.NewReader(Schema))
		if err != nil {
			compileErr = fmt.Errorf("parse suite schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema.json", sch); err != nil {
			compileErr = fmt.Errorf("add suite schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("schema.json")
	})
	return compiledSchema, compileErr
}

// ValidateDocument checks a YAML (or JSON) suite document against Schema.
func ValidateDocument(data []byte) error {
	sch, err := suiteSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Round-trip through JSON so the validator sees JSON types only.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("document is not JSON-compatible: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
	if err != nil {
		return fmt.Errorf("document is not JSON-compatible: %w", err)
	}

	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}
	return nil
}
