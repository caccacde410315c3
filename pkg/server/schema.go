package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const filterStateSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "priceRange": {
      "type": "object",
      "additionalProperties": false,
      "required": ["min", "max"],
      "properties": {
        "min": {"type": "number", "minimum": 0},
        "max": {"type": "number", "minimum": 0}
      }
    },
    "categories": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "brands": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "features": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "minRating": {"type": "integer", "minimum": 0, "maximum": 5}
  }
}`

const priceRangeSchema = `{
  "type": "object",
  "required": ["min", "max"],
  "properties": {
    "min": {"type": "number", "minimum": 0},
    "max": {"type": "number", "minimum": 0}
  }
}`

var (
	filterStateValidator = mustCompile("filter state", filterStateSchema)
	priceRangeValidator  = mustCompile("price range", priceRangeSchema)
)

func mustCompile(name, schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("compiling %s schema: %v", name, err))
	}
	return compiled
}

func validateBody(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
