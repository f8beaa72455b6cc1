package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is a free-form JSONB object column.
type JSONMap map[string]any

func (m *JSONMap) Scan(value any) error {
	raw, err := jsonBytes(value)
	if err != nil {
		return err
	}
	result := JSONMap{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return err
		}
	}
	*m = result
	return nil
}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Clone returns a shallow copy so callers can merge without touching the original.
func (m JSONMap) Clone() JSONMap {
	out := make(JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type Member struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	IDFile string `json:"id_file,omitempty"`
}

// Members is the JSONB array held in step 2 of a ticket.
type Members []Member

func (m *Members) Scan(value any) error {
	raw, err := jsonBytes(value)
	if err != nil {
		return err
	}
	result := Members{}
	// tickets created by older clients stored an empty object instead of an array
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &result); err != nil {
			return err
		}
	}
	*m = result
	return nil
}

func (m Members) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Member(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m Members) IndexOf(email string) int {
	for i, member := range m {
		if member.Email == email {
			return i
		}
	}
	return -1
}

func jsonBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json column type %T", value)
	}
}
