package catmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	apperrors "github.com/matzehuels/mindmap/pkg/errors"
)

// ShapeError describes where a document departs from the category-map shape.
type ShapeError struct {
	Key   string // offending category; empty when the top level is at fault
	Index int    // list position, or -1 when the category value itself is at fault
	Got   string // JSON type found: "object", "array", "null", "string", ...
}

func (e *ShapeError) Error() string {
	switch {
	case e.Key == "" && e.Index < 0:
		return fmt.Sprintf("top level is %s, want object", e.Got)
	case e.Index >= 0:
		return fmt.Sprintf("category %q: item %d is %s, want string, number or bool", e.Key, e.Index, e.Got)
	default:
		return fmt.Sprintf("category %q: value is %s, want list or scalar", e.Key, e.Got)
	}
}

// Parse decodes a category map from JSON, preserving key order.
//
// The document must be an object whose values are arrays of scalars or a
// single scalar (string, number or bool). Anything else (null, nested objects,
// nested arrays, a non-object top level) is rejected with an
// [apperrors.ErrCodeMalformedInput] error whose cause is a *ShapeError naming
// the offending key. Duplicate keys keep their first position and take the
// last value.
func Parse(data []byte) (*Map, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, syntaxError(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, shapeError(&ShapeError{Index: -1, Got: tokenKind(tok)})
	}

	m := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxError(err)
		}
		key, _ := tok.(string)
		v, err := decodeValue(dec, key)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, apperrors.New(apperrors.ErrCodeMalformedInput, "unexpected data after category map")
	}
	return m, nil
}

func decodeValue(dec *json.Decoder, key string) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, syntaxError(err)
	}
	if isScalar(tok) {
		return Value{Items: []any{tok}, Scalar: true}, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return Value{}, shapeError(&ShapeError{Key: key, Index: -1, Got: tokenKind(tok)})
	}

	v := Value{Items: []any{}}
	for i := 0; dec.More(); i++ {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, syntaxError(err)
		}
		if !isScalar(tok) {
			return Value{}, shapeError(&ShapeError{Key: key, Index: i, Got: tokenKind(tok)})
		}
		v.Items = append(v.Items, tok)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, syntaxError(err)
	}
	return v, nil
}

func isScalar(tok json.Token) bool {
	switch tok.(type) {
	case string, json.Number, bool:
		return true
	}
	return false
}

func tokenKind(tok json.Token) string {
	switch t := tok.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	case json.Delim:
		if t == '{' {
			return "an object"
		}
		return "an array"
	}
	return fmt.Sprintf("%T", tok)
}

func shapeError(se *ShapeError) error {
	return apperrors.Wrap(apperrors.ErrCodeMalformedInput, se, "invalid category map")
}

func syntaxError(err error) error {
	return apperrors.Wrap(apperrors.ErrCodeMalformedInput, err, "invalid JSON")
}

// MarshalJSON encodes the map as a compact JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeScalar(&buf, e.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if e.Value.Scalar && len(e.Value.Items) == 1 {
			if err := writeScalar(&buf, e.Value.Items[0]); err != nil {
				return nil, err
			}
			continue
		}
		buf.WriteByte('[')
		for j, it := range e.Value.Items {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(&buf, it); err != nil {
				return nil, err
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a category map, preserving key order.
func (m *Map) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// writeScalar writes a JSON scalar without HTML escaping, so labels such as
// "R&D" stay readable in saved files.
func writeScalar(buf *bytes.Buffer, x any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(x); err != nil {
		return fmt.Errorf("encode %v: %w", x, err)
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}

// MarshalIndent encodes the map with two-space indentation, the format used
// for saved category map files.
func MarshalIndent(m *Map) ([]byte, error) {
	compact, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("indent: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Write encodes the map with indentation to w.
func Write(m *Map, w io.Writer) error {
	data, err := MarshalIndent(m)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadFile reads and parses a category map file.
func ReadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "category map %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteFile writes a category map file with indentation.
// The file is created with 0644 permissions.
func WriteFile(m *Map, path string) error {
	data, err := MarshalIndent(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
