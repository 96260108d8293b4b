package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/flamelang/flamec/internal/ir"
)

// marshalValue converts a FlameType to tagged JSON TEXT for storage.
// A nil value yields the empty string, which nullable() maps to SQL NULL.
func marshalValue(v ir.FlameType) (string, error) {
	if v == nil {
		return "", nil
	}
	data, err := ir.MarshalValue(v)
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	return string(data), nil
}

// unmarshalValue parses tagged JSON TEXT back into a FlameType.
// Construction invariants are re-applied by ir.UnmarshalValue.
func unmarshalValue(data string) (ir.FlameType, error) {
	if data == "" || data == "null" {
		return nil, nil
	}
	v, err := ir.UnmarshalValue([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}
	return v, nil
}

// marshalSpec converts a PipelineSpec to JSON TEXT for storage.
// Struct field order makes the encoding deterministic.
func marshalSpec(spec ir.PipelineSpec) (string, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("marshal spec: %w", err)
	}
	return string(data), nil
}

// unmarshalSpec parses stored JSON TEXT back into a PipelineSpec.
func unmarshalSpec(data string) (ir.PipelineSpec, error) {
	var spec ir.PipelineSpec
	if err := json.Unmarshal([]byte(data), &spec); err != nil {
		return spec, fmt.Errorf("unmarshal spec: %w", err)
	}
	return spec, nil
}

// nullable converts an empty string to a SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
