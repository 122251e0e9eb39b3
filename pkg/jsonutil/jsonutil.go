// Package jsonutil wraps sonic with the encoding/json-compatible config so
// callers get sorted map keys and standard escaping.
package jsonutil

import (
	"bytes"

	"github.com/bytedance/sonic"
)

var api = sonic.ConfigStd

// Marshal encodes v.
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// Decode parses data into a generic value. Empty or whitespace-only input is
// an error, matching encoding/json.
func Decode(data []byte) (any, error) {
	var v any
	if err := api.Unmarshal(bytes.TrimSpace(data), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Pretty re-encodes an already decoded value with two-space indentation.
func Pretty(v any) string {
	out, err := api.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}
