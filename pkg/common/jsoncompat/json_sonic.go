//go:build !stdjson

package jsoncompat

import "github.com/bytedance/sonic"

var api = sonic.ConfigStd

// Marshal encodes with sonic using encoding/json compatible settings.
func Marshal(v any) ([]byte, error) { return api.Marshal(v) }

// Unmarshal decodes with sonic using encoding/json compatible settings.
func Unmarshal(data []byte, v any) error { return api.Unmarshal(data, v) }

// MarshalIndent encodes with sonic and indents the result.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}
