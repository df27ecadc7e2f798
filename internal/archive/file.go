package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Decode parses the contents of an export file. A top-level object is one
// record, a top-level array yields its object elements in order. Any other
// valid JSON value yields no records.
func Decode(data []byte) ([]*Record, error) {
	var top json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	top = bytes.TrimSpace(top)

	switch top[0] {
	case '{':
		r, err := ParseRecord(top)
		if err != nil {
			return nil, err
		}
		return []*Record{r}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(top, &items); err != nil {
			return nil, fmt.Errorf("decode array: %w", err)
		}
		records := make([]*Record, 0, len(items))
		for _, item := range items {
			r, err := ParseRecord(item)
			if err != nil {
				// Non-object elements are not messages.
				continue
			}
			records = append(records, r)
		}
		return records, nil
	default:
		return nil, nil
	}
}

// ReadFile reads and decodes an export file.
func ReadFile(path string) ([]*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	records, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}
