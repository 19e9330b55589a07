package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains a user-supplied JSON options file before it is
// decoded into Config, catching typos in threshold names (unknown keys in
// the suggester section are rejected) or wrong value types early rather
// than silently falling back to defaults.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "analysis": {
      "type": "object",
      "properties": {
        "top_k": {"type": "integer", "minimum": 1},
        "include_symbols": {"type": "boolean"},
        "normalize_paths": {"type": "boolean"}
      }
    },
    "suggester": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "pch_min_includers": {"type": "integer", "minimum": 1},
        "pch_min_ms": {"type": "number", "minimum": 0},
        "slow_tu_ms": {"type": "number", "minimum": 0},
        "fwd_min_includers": {"type": "integer", "minimum": 1},
        "heavy_tmpl_count": {"type": "integer", "minimum": 1},
        "heavy_tmpl_ms": {"type": "number", "minimum": 0},
        "unity_min_files": {"type": "integer", "minimum": 1},
        "unity_mean_ms": {"type": "number", "minimum": 0},
        "pimpl_min_includers": {"type": "integer", "minimum": 1},
        "pimpl_min_ms": {"type": "number", "minimum": 0},
        "enabled_rules": {"type": "array", "items": {"type": "string"}}
      }
    },
    "export": {
      "type": "object",
      "properties": {
        "pretty_print": {"type": "boolean"},
        "include_metadata": {"type": "boolean"},
        "include_suggestions": {"type": "boolean"},
        "include_raw_data": {"type": "boolean"},
        "min_priority": {"type": "string", "enum": ["low", "medium", "high", "critical"]},
        "max_entries": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

// ValidateJSONConfig validates a JSON config document against
// configSchema before LoadConfig decodes it, returning every violation
// joined into one error.
func ValidateJSONConfig(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("config: schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		messages = append(messages, e.String())
	}

	return fmt.Errorf("config: invalid document: %s", strings.Join(messages, "; "))
}
