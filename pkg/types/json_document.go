package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONDocument stores an opaque JSON payload inside a JSONB column.
type JSONDocument json.RawMessage

// Value serializes the document, writing an empty object when unset.
func (d JSONDocument) Value() (driver.Value, error) {
	if len(bytes.TrimSpace(d)) == 0 {
		return "{}", nil
	}
	if !json.Valid(d) {
		return nil, fmt.Errorf("json document: invalid payload")
	}
	return string(d), nil
}

// Scan decodes JSONB or TEXT into the document.
func (d *JSONDocument) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case string:
		*d = append((*d)[:0], v...)
	case []byte:
		*d = append((*d)[:0], v...)
	default:
		return fmt.Errorf("json document: unsupported scan type %T", value)
	}
	return nil
}

// MarshalJSON emits the raw document.
func (d JSONDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON keeps a copy of the raw document.
func (d *JSONDocument) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}

// Decode unmarshals the document into target.
func (d JSONDocument) Decode(target any) error {
	if len(d) == 0 {
		return fmt.Errorf("json document: empty")
	}
	return json.Unmarshal(d, target)
}

// NewJSONDocument marshals v into a document.
func NewJSONDocument(v any) (JSONDocument, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return JSONDocument(raw), nil
}
