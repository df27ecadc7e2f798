package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject is returned by ParseRecord when the input is valid JSON but not an object.
var ErrNotObject = errors.New("record is not a JSON object")

// Profile is the embedded user_profile of a message record.
type Profile struct {
	RealName    string
	DisplayName string
}

// Record is one raw message record from an export file. Fields are read
// leniently: a field with an unexpected JSON type is treated as absent.
type Record struct {
	Type        string
	Subtype     string
	TS          string
	User        string
	Text        string
	HasProfile  bool
	Profile     Profile
	Blocks      json.RawMessage
	Files       int
	Attachments int
	Original    *Record

	fields map[string]json.RawMessage
}

// ParseRecord decodes a single JSON object into a Record.
func ParseRecord(data []byte) (*Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrNotObject
		}
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if fields == nil {
		return nil, ErrNotObject
	}
	return fromFields(fields), nil
}

func fromFields(fields map[string]json.RawMessage) *Record {
	r := &Record{
		Type:        stringField(fields, "type"),
		Subtype:     stringField(fields, "subtype"),
		TS:          stringField(fields, "ts"),
		User:        stringField(fields, "user"),
		Text:        stringField(fields, "text"),
		Blocks:      fields["blocks"],
		Files:       arrayLen(fields["files"]),
		Attachments: arrayLen(fields["attachments"]),
		fields:      fields,
	}

	if raw, ok := fields["user_profile"]; ok {
		var p map[string]json.RawMessage
		if json.Unmarshal(raw, &p) == nil && p != nil {
			r.HasProfile = true
			r.Profile = Profile{
				RealName:    stringField(p, "real_name"),
				DisplayName: stringField(p, "display_name"),
			}
		}
	}

	if raw, ok := fields["original"]; ok {
		var orig map[string]json.RawMessage
		if json.Unmarshal(raw, &orig) == nil && orig != nil {
			r.Original = fromFields(orig)
		}
	}

	return r
}

// Field returns the raw JSON value of a top-level key.
func (r *Record) Field(key string) (json.RawMessage, bool) {
	raw, ok := r.fields[key]
	return raw, ok
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func arrayLen(raw json.RawMessage) int {
	if len(bytes.TrimSpace(raw)) == 0 {
		return 0
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0
	}
	return len(items)
}
