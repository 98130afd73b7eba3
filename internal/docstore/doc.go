// Package docstore is a small document database over SQLite: schemaless
// JSON documents grouped in slash-separated collections, range queries on
// top-level fields, snapshot subscriptions and atomic write batches.
//
// Queries return documents in storage order, not in any order the caller
// cares about; callers that need an order must rebuild it from the data.
package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Data is the body of a document.
type Data = map[string]any

// deleteField is the sentinel type behind DeleteField.
type deleteField struct{}

// DeleteField removes a field when used as a value in Update or a merging Set.
var DeleteField = deleteField{}

// Doc is a document as read from the store.
type Doc struct {
	Collection string
	ID         string
	Data       Data
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Path returns the full slash-separated path of the document.
func (d Doc) Path() string { return d.Collection + "/" + d.ID }

// String returns a string field, or "" when absent or of another type.
func (d Doc) String(field string) string {
	s, _ := d.Data[field].(string)
	return s
}

// Int returns a numeric field truncated to int, or 0.
func (d Doc) Int(field string) int {
	switch v := d.Data[field].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}

// Strings returns a string-list field; non-string entries are skipped.
func (d Doc) Strings(field string) []string {
	raw, ok := d.Data[field].([]any)
	if !ok {
		if ss, ok := d.Data[field].([]string); ok {
			return append([]string(nil), ss...)
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Decode unmarshals the document body into v via its JSON form.
func (d Doc) Decode(v any) error {
	b, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", d.Path(), err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decoding %s: %w", d.Path(), err)
	}
	return nil
}

// SplitPath splits a document path into its collection and id.
func SplitPath(path string) (collection, id string, err error) {
	path = strings.Trim(path, "/")
	i := strings.LastIndex(path, "/")
	if i <= 0 || i == len(path)-1 {
		return "", "", fmt.Errorf("invalid document path %q", path)
	}
	return path[:i], path[i+1:], nil
}

func encodeData(data Data) (string, error) {
	clean := make(Data, len(data))
	for k, v := range data {
		if _, del := v.(deleteField); del {
			continue
		}
		clean[k] = v
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}
	return string(b), nil
}

func decodeData(raw string) (Data, error) {
	data := Data{}
	if raw == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return data, nil
}

// mergeData applies fields on top of base, honouring DeleteField.
func mergeData(base, fields Data) Data {
	out := make(Data, len(base)+len(fields))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range fields {
		if _, del := v.(deleteField); del {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
