package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func nullableString() map[string]any {
	return map[string]any{"type": []any{"string", "null"}}
}

// RecordSchema is the JSON Schema of a serialized Record
func RecordSchema() map[string]any {
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"additionalProperties": false,
		"required": []any{
			"invoice_number", "issue_date", "due_date", "supplier_name",
			"invoice_total", "currency", "line_items",
		},
		"properties": map[string]any{
			"invoice_number": nullableString(),
			"issue_date":     nullableString(),
			"due_date":       nullableString(),
			"supplier_name":  nullableString(),
			"invoice_total":  nullableString(),
			"currency": map[string]any{
				"type":    []any{"string", "null"},
				"pattern": "^[A-Z]{3}$",
			},
			"line_items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"description", "quantity", "unit_price", "total"},
					"properties": map[string]any{
						"description": map[string]any{"type": "string", "minLength": minDescriptionRunes},
						"quantity":    map[string]any{"type": "string"},
						"unit_price":  nullableString(),
						"total":       nullableString(),
					},
				},
			},
		},
	}
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func recordSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(RecordSchema())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("invoice.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("invoice.json")
	})
	return compiledSchema, schemaErr
}

// ValidateRecord checks the serialized form of rec against RecordSchema
func ValidateRecord(rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return ValidateJSON(data)
}

// ValidateJSON checks an already serialized record
func ValidateJSON(data []byte) error {
	schema, err := recordSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
