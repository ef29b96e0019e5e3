package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dgallion1/resistconv/internal/dataset"
)

var (
	// ErrEncoding means the input bytes are not valid in the expected text encoding.
	ErrEncoding = errors.New("invalid text encoding")
	// ErrMalformedDocument means the input is not JSON or its top-level value is not an array.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrMalformedRecord means a record is not an array or holds fewer than two elements.
	ErrMalformedRecord = errors.New("malformed record")
)

// RecordError identifies the record that could not be used.
type RecordError struct {
	Index int // Zero-based position in the top-level array
	Len   int // Element count, -1 if the record is not an array
}

func (e *RecordError) Error() string {
	if e.Len < 0 {
		return fmt.Sprintf("record %d: not an array", e.Index)
	}
	return fmt.Sprintf("record %d: need at least 2 elements, got %d", e.Index, e.Len)
}

func (e *RecordError) Unwrap() error { return ErrMalformedRecord }

// JSONParser reads a JSON array of [article, resistance, ...] records.
type JSONParser struct {
	// Encoding is a WHATWG label for the input text; empty means UTF-8.
	Encoding string
}

// Parse reads the whole document and returns its records in input order.
// Nothing is returned unless every record is usable.
func (p *JSONParser) Parse(r io.Reader, name string) (*dataset.Dataset, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	text, err := decodeText(src, p.Encoding)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value must be an array", ErrMalformedDocument)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	ds := &dataset.Dataset{
		Source:  name,
		Records: make([]dataset.Record, 0, len(raw)),
	}
	for i, item := range raw {
		rec, err := parseRecord(i, item)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

func parseRecord(idx int, item json.RawMessage) (dataset.Record, error) {
	item = bytes.TrimSpace(item)
	if len(item) == 0 || item[0] != '[' {
		return dataset.Record{}, &RecordError{Index: idx, Len: -1}
	}
	var fields []json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return dataset.Record{}, fmt.Errorf("%w: record %d: %v", ErrMalformedDocument, idx, err)
	}
	if len(fields) < 2 {
		return dataset.Record{}, &RecordError{Index: idx, Len: len(fields)}
	}

	// Elements past the second are ignored.
	article, err := scalarText(fields[0])
	if err != nil {
		return dataset.Record{}, fmt.Errorf("%w: record %d: %v", ErrMalformedDocument, idx, err)
	}
	resistance, err := scalarText(fields[1])
	if err != nil {
		return dataset.Record{}, fmt.Errorf("%w: record %d: %v", ErrMalformedDocument, idx, err)
	}
	return dataset.Record{Article: article, Resistance: resistance}, nil
}

// scalarText returns the output form of one JSON value: strings unquoted,
// numbers and booleans as written, null as empty text, and composite values
// as compact JSON.
func scalarText(v json.RawMessage) (string, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return "", nil
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return s, nil
	case 'n':
		return "", nil
	case '[', '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(v), nil
	}
}
