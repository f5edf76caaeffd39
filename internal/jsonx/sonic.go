// Package jsonx provides JSON serialization backed by Sonic.
// Drop-in for the subset of encoding/json this service uses, with
// noticeably lower encode cost on snapshot and wire payloads.
package jsonx

import (
	"github.com/bytedance/sonic"
)

var config = sonic.Config{
	EscapeHTML: false,
	UseInt64:   true,
}.Froze()

// Marshal returns the JSON encoding of v.
func Marshal(v interface{}) ([]byte, error) {
	return config.Marshal(v)
}

// MarshalIndent returns the JSON encoding of v with the given prefix
// and indent applied to each element.
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return config.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses JSON-encoded data into the value pointed to by v.
func Unmarshal(data []byte, v interface{}) error {
	return config.Unmarshal(data, v)
}

// MarshalToString is like Marshal but returns a string, avoiding the
// []byte-to-string copy.
func MarshalToString(v interface{}) (string, error) {
	return config.MarshalToString(v)
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return config.Valid(data)
}
