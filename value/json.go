package value

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the map as a JSON object.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(ToNative(m))
}

// UnmarshalJSON replaces the map contents with the decoded object.
func (m *Map) UnmarshalJSON(data []byte) error {
	if m.IsFrozen() {
		return mutationError(OpSet, "map", "")
	}
	decoded, err := decodeJSON(data)
	if err != nil {
		return err
	}
	parsed, ok := decoded.(*Map)
	if !ok {
		return fmt.Errorf("value: expected JSON object, got %T", decoded)
	}
	m.entries = parsed.entries
	return nil
}

// MarshalJSON encodes the list as a JSON array.
func (l *List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("null"), nil
	}
	return json.Marshal(ToNative(l))
}

// UnmarshalJSON replaces the list contents with the decoded array.
func (l *List) UnmarshalJSON(data []byte) error {
	if l.IsFrozen() {
		return mutationError(OpSet, "list", "")
	}
	decoded, err := decodeJSON(data)
	if err != nil {
		return err
	}
	parsed, ok := decoded.(*List)
	if !ok {
		return fmt.Errorf("value: expected JSON array, got %T", decoded)
	}
	l.items = parsed.items
	return nil
}

// ParseJSON decodes a JSON object into a mutable map.
func ParseJSON(data []byte) (*Map, error) {
	m := NewMap()
	if err := m.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("value: decode json: %w", err)
	}
	return FromNative(normalizeNumbers(raw)), nil
}

func normalizeNumbers(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, err := n.Float64()
		if err != nil {
			return n.String()
		}
		return f
	case map[string]any:
		for key, entry := range n {
			n[key] = normalizeNumbers(entry)
		}
		return n
	case []any:
		for i, item := range n {
			n[i] = normalizeNumbers(item)
		}
		return n
	default:
		return v
	}
}
