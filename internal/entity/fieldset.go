package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/findoc-reader/constants"
)

// FieldSet is the result of one extraction: every canonical field of the
// pipeline is present, holding either a non-empty value or nothing (null).
// JSON output keeps the declaration order of the fields.
type FieldSet struct {
	fields []constants.Field
	values map[constants.Field]*string
}

// NewFieldSet creates an all-null result set over the given fields.
func NewFieldSet(fields []constants.Field) *FieldSet {
	fs := &FieldSet{
		fields: make([]constants.Field, 0, len(fields)),
		values: make(map[constants.Field]*string, len(fields)),
	}
	for _, f := range fields {
		if _, dup := fs.values[f]; dup {
			continue
		}
		fs.fields = append(fs.fields, f)
		fs.values[f] = nil
	}
	return fs
}

// Assign stores value for field if the field is still null and the trimmed
// value is non-empty. It reports whether the value was stored; an assigned
// field is never overwritten.
func (fs *FieldSet) Assign(field constants.Field, value string) bool {
	cur, ok := fs.values[field]
	if !ok || cur != nil {
		return false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	fs.values[field] = &value
	return true
}

// Override replaces a field's value unconditionally. Only caller-level
// post-processing uses it; scans always go through Assign.
func (fs *FieldSet) Override(field constants.Field, value string) {
	if _, ok := fs.values[field]; !ok {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		fs.values[field] = nil
		return
	}
	fs.values[field] = &value
}

// Get returns the value of field and whether it is set.
func (fs *FieldSet) Get(field constants.Field) (string, bool) {
	v := fs.values[field]
	if v == nil {
		return "", false
	}
	return *v, true
}

// Has reports whether field is part of this set, set or not.
func (fs *FieldSet) Has(field constants.Field) bool {
	_, ok := fs.values[field]
	return ok
}

// IsSet reports whether field holds a value.
func (fs *FieldSet) IsSet(field constants.Field) bool {
	return fs.values[field] != nil
}

func (fs *FieldSet) Fields() []constants.Field {
	out := make([]constants.Field, len(fs.fields))
	copy(out, fs.fields)
	return out
}

func (fs *FieldSet) Len() int { return len(fs.fields) }

// Resolved counts the fields holding a value.
func (fs *FieldSet) Resolved() int {
	n := 0
	for _, v := range fs.values {
		if v != nil {
			n++
		}
	}
	return n
}

// ToMap returns a copy keyed by field name; nil means null.
func (fs *FieldSet) ToMap() map[string]*string {
	out := make(map[string]*string, len(fs.fields))
	for _, f := range fs.fields {
		if v := fs.values[f]; v != nil {
			s := *v
			out[string(f)] = &s
		} else {
			out[string(f)] = nil
		}
	}
	return out
}

// MarshalJSON writes the fields in declaration order, nulls included.
func (fs *FieldSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fs.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(f))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(fs.values[f])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object written by MarshalJSON, keeping key order.
// Empty or whitespace-only strings are read as null.
func (fs *FieldSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("field set: expected object, got %v", tok)
	}

	out := NewFieldSet(nil)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v *string
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("field set: %q: %w", key, err)
		}
		f := constants.Field(key)
		if _, dup := out.values[f]; !dup {
			out.fields = append(out.fields, f)
			out.values[f] = nil
		}
		if v != nil {
			out.Override(f, *v)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*fs = *out
	return nil
}
