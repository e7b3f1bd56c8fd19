package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Serializer converts between native values and transmission payloads.
type Serializer interface {
	// Encode produces a payload from v.
	// Unrepresentable values fail with *EncodingError.
	Encode(v any) ([]byte, error)

	// Decode parses data into the JSON value model
	// (map[string]any, []any, string, float64, bool, nil).
	// Malformed input fails with *DecodingError.
	Decode(data []byte) (any, error)
}

// JSON is the default Serializer.
type JSON struct{}

// Encode implements Serializer.
func (JSON) Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &EncodingError{Err: err}
	}
	return data, nil
}

// Decode implements Serializer.
func (j JSON) Decode(data []byte) (any, error) {
	var v any
	if err := j.DecodeInto(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeInto parses data into out. Trailing content after the first JSON
// value is rejected.
func (JSON) DecodeInto(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil {
		return &DecodingError{Payload: snippet(data), Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return &DecodingError{Payload: snippet(data), Err: err}
	}
	return nil
}

// Compile-time check that JSON implements Serializer.
var _ Serializer = JSON{}
